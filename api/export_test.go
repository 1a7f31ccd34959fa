package api

import (
	"bytes"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportRouter(store ExpenseLister) *gin.Engine {
	h := NewExportHandler(store)
	h.now = func() time.Time { return time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC) }
	router := gin.New()
	router.GET("/api/export/csv", h.ExportCSV)
	router.GET("/api/export/xlsx", h.ExportExcel)
	return router
}

func expectExpenseRows(mock sqlmock.Sqlmock) {
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "amount", "created_at"}).
			AddRow(2, "Lunch", 2500, created).
			AddRow(1, "Coffee", 1050, created))
}

func TestExportHandler_ExportCSV(t *testing.T) {
	mock, store := setupMockDB(t)
	expectExpenseRows(mock)

	w := doJSON(exportRouter(store), http.MethodGet, "/api/export/csv", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "attachment; filename=despesas_20250302.csv", w.Header().Get("Content-Disposition"))
	body := w.Body.String()
	assert.Contains(t, body, "ID,Descrição,Valor (centavos),Valor (R$),Criado em")
	assert.Contains(t, body, "2,Lunch,2500,\"R$ 25,00\",2025-03-01 09:30:00")
	assert.Contains(t, body, "1,Coffee,1050,\"R$ 10,50\",2025-03-01 09:30:00")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportExcel(t *testing.T) {
	mock, store := setupMockDB(t)
	expectExpenseRows(mock)

	w := doJSON(exportRouter(store), http.MethodGet, "/api/export/xlsx", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(exportSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Descrição", header)

	desc, err := f.GetCellValue(exportSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Lunch", desc)

	formatted, err := f.GetCellValue(exportSheet, "D3")
	require.NoError(t, err)
	assert.Equal(t, "R$ 10,50", formatted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_StorageError(t *testing.T) {
	mock, store := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `expenses`").WillReturnError(errors.New("gone"))

	w := doJSON(exportRouter(store), http.MethodGet, "/api/export/csv", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "gone")
	require.NoError(t, mock.ExpectationsWereMet())
}
