package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/common"
)

// AllowedExt checks if a file extension is in constants.AllowedExtensions.
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

// PONumberFromPath uses the file stem as the purchase-order number:
// "/scans/4471-2024.pdf" -> "4471-2024".
func PONumberFromPath(path string) (string, error) {
	base := filepath.Base(path)
	stem := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	v := common.NewValidator().
		Field("po_number", stem, common.Required, common.MaxLength(64), common.PONumber)
	if err := v.Error(); err != nil {
		return "", common.NewAppError("INGEST_ERROR", "cannot derive po number from "+base, err)
	}
	return stem, nil
}
