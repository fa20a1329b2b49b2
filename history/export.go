package history

import (
	"fmt"
	"io"

	"order-entry/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Orders"

var exportHeaders = []string{
	"Sl No", "Date", "OTF No", "Customer Name", "Vehicle Model", "Chassis No",
	"Item Description", "Part No", "Amount", "Total Amount", "Status", "Remarks", "Items", "Synced",
}

// WriteXLSX 每个订单一行
func WriteXLSX(w io.Writer, orders []models.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for r, o := range orders {
		total, _ := o.TotalAmount.Float64()
		row := []interface{}{
			o.SlNo, o.Date, o.OTFNo, o.CustomerName, o.VehicleModel, o.ChassisNo,
			o.ItemDescription, o.PartNo, o.Amount, total, o.Status, o.Remarks, o.ItemCount(), o.IsSynced(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
