// Package search lưu và tra cứu đơn vị hành chính trên Meilisearch
package search

import (
	"fmt"
	"net/http"
	"time"

	ms "github.com/meilisearch/meilisearch-go"
)

// newClient tạo Meilisearch client, timeout <= 0 thì dùng http client mặc định
func newClient(host, key string, timeout time.Duration) ms.ServiceManager {
	if timeout <= 0 {
		return ms.New(host, ms.WithAPIKey(key))
	}
	return ms.New(host, ms.WithAPIKey(key), ms.WithCustomClient(&http.Client{Timeout: timeout}))
}

// FilterLevelParent tạo filter theo level và parent_id
func FilterLevelParent(level int, parentID string) string {
	if parentID == "" {
		return FilterLevel(level)
	}
	return fmt.Sprintf("level = %d AND parent_id = %q", level, parentID)
}

// FilterLevel tạo filter theo level
func FilterLevel(level int) string {
	return fmt.Sprintf("level = %d", level)
}
