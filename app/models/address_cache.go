package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddressCache document cache kết quả parse trong MongoDB
type AddressCache struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CacheKey          string             `bson:"cache_key" json:"cache_key"`                   // Phiên bản dictionary + fingerprint
	RawFingerprint    string             `bson:"raw_fingerprint" json:"raw_fingerprint"`       // Fingerprint của địa chỉ
	RawAddress        string             `bson:"raw_address" json:"raw_address"`               // Địa chỉ gốc
	Normalized        string             `bson:"normalized" json:"normalized"`                 // Văn bản đã chuẩn hóa
	ParsedResult      AddressResult      `bson:"parsed_result" json:"parsed_result"`           // Kết quả parse
	Confidence        float64            `bson:"confidence" json:"confidence"`                 // Độ tin cậy
	Status            string             `bson:"status" json:"status"`                         // Trạng thái
	DictionaryVersion string             `bson:"dictionary_version" json:"dictionary_version"` // Phiên bản dictionary
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`                 // Thời gian tạo
	LastAccessed      time.Time          `bson:"last_accessed" json:"last_accessed"`           // Lần truy cập cuối
	AccessCount       int                `bson:"access_count" json:"access_count"`             // Số lần truy cập
}

// NewAddressCache tạo mới một AddressCache
func NewAddressCache(key string, result AddressResult) *AddressCache {
	now := time.Now()
	return &AddressCache{
		CacheKey:          key,
		RawFingerprint:    result.RawFingerprint,
		RawAddress:        result.Raw,
		Normalized:        result.Normalized,
		ParsedResult:      result,
		Confidence:        result.Confidence,
		Status:            result.Status,
		DictionaryVersion: result.DictionaryVersion,
		CreatedAt:         now,
		LastAccessed:      now,
		AccessCount:       1,
	}
}

// UpdateAccess cập nhật thông tin truy cập
func (ac *AddressCache) UpdateAccess() {
	ac.LastAccessed = time.Now()
	ac.AccessCount++
}

// IsExpired kiểm tra cache có hết hạn không (dựa trên thời gian tạo)
func (ac *AddressCache) IsExpired(ttl time.Duration) bool {
	return ttl > 0 && time.Since(ac.CreatedAt) > ttl
}

// IsValidVersion kiểm tra phiên bản dictionary có khớp không
func (ac *AddressCache) IsValidVersion(currentVersion string) bool {
	return ac.DictionaryVersion == currentVersion
}
