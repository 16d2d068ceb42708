// Package routes cung cấp tất cả routing functions cho Address Parser Service
//
// Cấu trúc:
//   - api.go: API routes (/v1/*), health routes và middleware
//   - web.go: Web routes (/, /docs)
//
// Sử dụng:
//
//	routes.SetupAllRoutes(router, addressController, adminController, logger)
package routes
