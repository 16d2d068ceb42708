package models

import "time"

// AdminUnit đơn vị hành chính trong gazetteer (tỉnh, quận, phường)
type AdminUnit struct {
	AdminID           string    `bson:"admin_id" json:"admin_id"`                       // ID theo cấp hành chính
	ParentID          string    `bson:"parent_id,omitempty" json:"parent_id,omitempty"` // ID của đơn vị cha
	Level             int       `bson:"level" json:"level"`                             // 2=province, 3=district, 4=ward
	Name              string    `bson:"name" json:"name"`                               // Tên đơn vị hành chính
	NormalizedName    string    `bson:"normalized_name" json:"normalized_name"`         // Tên không dấu, lowercase
	AdminSubtype      string    `bson:"admin_subtype" json:"admin_subtype"`             // province, municipality...
	Aliases           []string  `bson:"aliases,omitempty" json:"aliases,omitempty"`     // Các tên gọi khác
	DictionaryVersion string    `bson:"dictionary_version" json:"dictionary_version"`   // Phiên bản dữ liệu nguồn
	UpdatedAt         time.Time `bson:"updated_at" json:"updated_at"`
}

// AdminSubtype constants
const (
	AdminSubtypeProvince     = "province"
	AdminSubtypeMunicipality = "municipality"
	AdminSubtypeDistrict     = "district"
	AdminSubtypeWard         = "ward"
)

// Level constants
const (
	LevelCountry  = 1
	LevelProvince = 2
	LevelDistrict = 3
	LevelWard     = 4
)

// LevelOf cấp hành chính tương ứng với label thành phần, 0 nếu không phải cấp hành chính
func LevelOf(label string) int {
	switch label {
	case LabelRegion:
		return LevelProvince
	case LabelCounty:
		return LevelDistrict
	case LabelLocality:
		return LevelWard
	case LabelCountry:
		return LevelCountry
	}
	return 0
}

// IsValidAdminSubtype kiểm tra admin_subtype có hợp lệ không
func (au *AdminUnit) IsValidAdminSubtype() bool {
	switch au.AdminSubtype {
	case AdminSubtypeProvince, AdminSubtypeMunicipality, AdminSubtypeDistrict, AdminSubtypeWard:
		return true
	}
	return false
}

// IsValidLevel kiểm tra level có hợp lệ không
func (au *AdminUnit) IsValidLevel() bool {
	return au.Level >= LevelCountry && au.Level <= LevelWard
}
