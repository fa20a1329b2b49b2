package submission

import (
	"fmt"
	"strings"

	"order-entry/catalog"
	"order-entry/composer"
	"order-entry/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Form 订单表头字段，明细由 Composer 提供
type Form struct {
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	OTFNo        string `json:"otfNo" validate:"required"`
	CustomerName string `json:"customerName" validate:"required"`
	VehicleModel string `json:"vehicleModel" validate:"required"`
	ChassisNo    string `json:"chassisNo" validate:"required"`
	Status       string `json:"status"`
	Remarks      string `json:"remarks"`
	Photo        string `json:"-"`
}

type itemForm struct {
	Accessory  string `validate:"required"`
	CustomName string `validate:"required_if=Accessory custom"`
	Amount     string `validate:"required"`
}

func (f Form) trimmed() Form {
	f.Date = strings.TrimSpace(f.Date)
	f.OTFNo = strings.TrimSpace(f.OTFNo)
	f.CustomerName = strings.TrimSpace(f.CustomerName)
	f.VehicleModel = strings.TrimSpace(f.VehicleModel)
	f.ChassisNo = strings.TrimSpace(f.ChassisNo)
	f.Status = strings.TrimSpace(f.Status)
	f.Remarks = strings.TrimSpace(f.Remarks)
	return f
}

// validateForm 返回第一个不合法字段的描述，全部合法时返回空字符串
func validateForm(f Form, drafts []composer.Draft) string {
	if err := validate.Struct(f); err != nil {
		return err.Error()
	}
	for i, d := range drafts {
		item := itemForm{
			Accessory:  strings.TrimSpace(d.Accessory),
			CustomName: strings.TrimSpace(d.CustomName),
			Amount:     strings.TrimSpace(d.Amount),
		}
		if err := validate.Struct(item); err != nil {
			return err.Error()
		}
		if item.Accessory == catalog.CustomSentinel && item.CustomName == catalog.CustomSentinel {
			return fmt.Sprintf("item %d: invalid custom name", i)
		}
		amount, ok := utils.ParseAmountStrict(item.Amount)
		if !ok || amount.IsNegative() {
			return fmt.Sprintf("item %d: invalid amount %q", i, item.Amount)
		}
	}
	return ""
}
