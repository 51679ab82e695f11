package reports

import (
	"fmt"
	"net/http"

	"bitbucket.org/mmdatafocus/venues_backend/models"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/xuri/excelize/v2"
)

// WriteDailySalesExcel streams an xlsx of the given sales rows to the client.
func WriteDailySalesExcel(w http.ResponseWriter, rows []*models.DailySales) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Sheet1")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Add headers
	f.SetCellValue("Sheet1", "A1", "BusinessDate")
	f.SetCellValue("Sheet1", "B1", "GrossSales")
	f.SetCellValue("Sheet1", "C1", "NetSales")
	f.SetCellValue("Sheet1", "D1", "Comps")
	f.SetCellValue("Sheet1", "E1", "Discounts")
	f.SetCellValue("Sheet1", "F1", "TaxCollected")
	f.SetCellValue("Sheet1", "G1", "Guests")
	f.SetCellValue("Sheet1", "H1", "CheckCount")
	f.SetCellValue("Sheet1", "I1", "LaborCost")
	f.SetCellValue("Sheet1", "J1", "LaborHours")
	f.SetCellValue("Sheet1", "K1", "CogsFood")
	f.SetCellValue("Sheet1", "L1", "CogsLiquor")

	// Add data
	for i, d := range rows {
		f.SetCellValue("Sheet1", "A"+fmt.Sprint(i+2), utils.FormatBusinessDate(d.BusinessDate))
		f.SetCellValue("Sheet1", "B"+fmt.Sprint(i+2), d.GrossSales.InexactFloat64())
		f.SetCellValue("Sheet1", "C"+fmt.Sprint(i+2), d.NetSales.InexactFloat64())
		f.SetCellValue("Sheet1", "D"+fmt.Sprint(i+2), d.Comps.InexactFloat64())
		f.SetCellValue("Sheet1", "E"+fmt.Sprint(i+2), d.Discounts.InexactFloat64())
		f.SetCellValue("Sheet1", "F"+fmt.Sprint(i+2), d.TaxCollected.InexactFloat64())
		f.SetCellValue("Sheet1", "G"+fmt.Sprint(i+2), d.Guests)
		f.SetCellValue("Sheet1", "H"+fmt.Sprint(i+2), d.CheckCount)
		f.SetCellValue("Sheet1", "I"+fmt.Sprint(i+2), d.LaborCost.InexactFloat64())
		f.SetCellValue("Sheet1", "J"+fmt.Sprint(i+2), d.LaborHours.InexactFloat64())
		f.SetCellValue("Sheet1", "K"+fmt.Sprint(i+2), d.CogsFood.InexactFloat64())
		f.SetCellValue("Sheet1", "L"+fmt.Sprint(i+2), d.CogsLiquor.InexactFloat64())
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=daily-sales.xlsx")
	if err := f.Write(w); err != nil {
		http.Error(w, "Failed to write file", http.StatusInternalServerError)
	}
}
