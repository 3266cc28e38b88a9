package parser

import (
	"fmt"
	"strings"

	"github.com/aluiziolira/go-book-notes/models"
)

// ValidateRecord ensures an extracted record is usable for rendering.
func ValidateRecord(b *models.BookRecord) error {
	if b == nil {
		return fmt.Errorf("record is nil")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("record missing title")
	}
	if b.TotalPage < 0 {
		return fmt.Errorf("record %s has negative page count", b.Title)
	}
	return nil
}
