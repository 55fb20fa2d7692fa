package output

import (
	"encoding/json"

	"github.com/pitgo/regime-calculator/internal/domain"
)

// JSONFormatter serializes the comparison as pretty-printed JSON, using the
// same envelope the HTTP API returns.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(result *domain.ComparisonResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
