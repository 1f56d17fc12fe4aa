package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-billing-api/internal/repository"
	appErrors "github.com/noah-isme/school-billing-api/pkg/errors"
)

// Paging bounds the page/size query parameters.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// withDefaults fills zero values and keeps both sizes within the store's page
// cap so page N always maps to the rows the store returns for it.
func (p Paging) withDefaults() Paging {
	if p.DefaultSize <= 0 {
		p.DefaultSize = repository.DefaultLimit
	}
	p.DefaultSize = min(p.DefaultSize, repository.MaxLimit)
	if p.MaxSize < p.DefaultSize {
		p.MaxSize = p.DefaultSize
	}
	p.MaxSize = min(p.MaxSize, repository.MaxLimit)
	return p
}

// parse reads page (1-based) and size and converts them to offset/limit.
func (p Paging) parse(c *gin.Context) (offset, limit int, err error) {
	p = p.withDefaults()
	page, err := intQuery(c, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	size, err := intQuery(c, "size", p.DefaultSize)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 {
		return 0, 0, badRequest("page must be >= 1")
	}
	if size < 1 || size > p.MaxSize {
		return 0, 0, badRequest(fmt.Sprintf("size must be between 1 and %d", p.MaxSize))
	}
	return (page - 1) * size, size, nil
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("%s must be an integer", key))
	}
	return value, nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

func optionalID(c *gin.Context, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, badRequest(fmt.Sprintf("invalid %s", key))
	}
	return &id, nil
}

// attributeFilters collects every query parameter that is not reserved as an
// exact-match attribute filter. Repeated keys keep their first value.
func attributeFilters(c *gin.Context, reserved ...string) map[string]string {
	skip := make(map[string]struct{}, len(reserved))
	for _, key := range reserved {
		skip[key] = struct{}{}
	}
	filters := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if _, ok := skip[key]; ok || len(values) == 0 {
			continue
		}
		filters[key] = values[0]
	}
	return filters
}

func badRequest(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}

func invalidPayload(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}
