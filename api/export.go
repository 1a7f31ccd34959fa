package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"expenses/middleware"
	"expenses/models"
	"expenses/money"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet     = "Despesas"
	exportTimestamp = "2006-01-02 15:04:05"
	msgExportFailed = "Erro ao exportar despesas."
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeaders = []string{"ID", "Descrição", "Valor (centavos)", "Valor (R$)", "Criado em"}

// ExpenseLister read side of the store
type ExpenseLister interface {
	List(ctx context.Context) ([]models.Expense, error)
}

// ExportHandler downloads of the expense list
type ExportHandler struct {
	store ExpenseLister
	now   func() time.Time
}

// NewExportHandler creates the export handler
func NewExportHandler(store ExpenseLister) *ExportHandler {
	return &ExportHandler{store: store, now: time.Now}
}

func exportRow(e models.Expense) []string {
	return []string{
		strconv.FormatUint(uint64(e.ID), 10),
		e.Description,
		strconv.FormatInt(e.Amount, 10),
		money.FormatBRL(e.Amount),
		e.CreatedAt.Format(exportTimestamp),
	}
}

func (h *ExportHandler) filename(ext string) string {
	return fmt.Sprintf("despesas_%s.%s", h.now().Format("20060102"), ext)
}

// ExportCSV exports every expense as CSV
// @Summary Export expenses as CSV
// @Tags export
// @Produce text/csv
// @Success 200 {file} file "CSV file"
// @Failure 500 {object} ErrorResponse "storage error"
// @Router /api/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	expenses, err := h.store.List(c.Request.Context())
	if err != nil {
		middleware.Logger(c).Error("export csv failed", "error", err)
		InternalError(c, msgExportFailed)
		return
	}

	buf := new(bytes.Buffer)
	// BOM so spreadsheet apps pick UTF-8 for the accented headers
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, msgExportFailed)
		return
	}
	for _, e := range expenses {
		if err := writer.Write(exportRow(e)); err != nil {
			InternalError(c, msgExportFailed)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, msgExportFailed)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", h.filename("csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel exports every expense as an xlsx workbook
// @Summary Export expenses as Excel
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "xlsx file"
// @Failure 500 {object} ErrorResponse "storage error"
// @Router /api/export/xlsx [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	expenses, err := h.store.List(c.Request.Context())
	if err != nil {
		middleware.Logger(c).Error("export xlsx failed", "error", err)
		InternalError(c, msgExportFailed)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		InternalError(c, msgExportFailed)
		return
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2563EB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetColWidth(exportSheet, "A", "A", 8)
	f.SetColWidth(exportSheet, "B", "B", 40)
	f.SetColWidth(exportSheet, "C", "D", 18)
	f.SetColWidth(exportSheet, "E", "E", 22)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, header)
		f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for i, e := range expenses {
		row := i + 2
		f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), e.ID)
		f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), e.Description)
		f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), e.Amount)
		f.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), money.FormatBRL(e.Amount))
		f.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), e.CreatedAt.Format(exportTimestamp))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		middleware.Logger(c).Error("write xlsx failed", "error", err)
		InternalError(c, msgExportFailed)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", h.filename("xlsx")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
