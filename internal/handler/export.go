package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/partywall/api/internal/model"
	"gorm.io/gorm"
)

type ExportHandler struct {
	db *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{db: db}
}

// ExportWishes downloads the wish wall in the requested format. The PDF form
// mirrors the old client-side export: one text block per entry, new page when
// vertical space runs out.
func (h *ExportHandler) ExportWishes(c *gin.Context) {
	format := c.DefaultQuery("format", "pdf")

	var wishes []model.WishResponse
	err := h.db.Where("event_key = ?", model.DefaultEventKey).
		Order("created_at ASC").
		Find(&wishes).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load responses"})
		return
	}

	switch format {
	case "json":
		h.exportJSON(c, wishes)
	case "csv":
		h.exportCSV(c, wishes)
	case "pdf":
		h.exportPDF(c, wishes)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format. Use pdf, csv, or json"})
	}
}

func (h *ExportHandler) exportJSON(c *gin.Context, wishes []model.WishResponse) {
	c.Header("Content-Disposition", "attachment; filename=wishes.json")
	c.JSON(http.StatusOK, wishes)
}

func (h *ExportHandler) exportCSV(c *gin.Context, wishes []model.WishResponse) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	writer.Write([]string{"Created", "Dear", "Wishes", "From"})

	for _, w := range wishes {
		writer.Write([]string{
			w.CreatedAt.Format("2006-01-02 15:04:05"),
			deref(w.DisplayName),
			deref(w.Advice),
			deref(w.LoveFrom),
		})
	}

	writer.Flush()

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=wishes.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *ExportHandler) exportPDF(c *gin.Context, wishes []model.WishResponse) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Wish Wall", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Exported %s", time.Now().Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, w := range wishes {
		if name := deref(w.DisplayName); name != "" {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 6, fmt.Sprintf("Dear %s,", name), "", "L", false)
		}

		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(0, 6, deref(w.Advice), "", "L", false)

		if from := deref(w.LoveFrom); from != "" {
			pdf.SetFont("Helvetica", "I", 11)
			pdf.MultiCell(0, 6, fmt.Sprintf("- %s", from), "", "R", false)
		}

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.MultiCell(0, 5, w.CreatedAt.Format("Jan 2, 2006 15:04"), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PDF generation failed"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=wishes.pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
