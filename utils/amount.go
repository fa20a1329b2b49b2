package utils

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount 解析金额，无法解析或为空时返回 0
func ParseAmount(s string) decimal.Decimal {
	d, ok := ParseAmountStrict(s)
	if !ok {
		return decimal.Zero
	}
	return d
}

// ParseAmountStrict 返回金额以及是否解析成功
func ParseAmountStrict(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FormatRupees 表格字段使用的金额格式，如 ₹500
func FormatRupees(d decimal.Decimal) string {
	return "₹" + d.String()
}

// AmountNumber 金额的 JSON 数字形式，不改变 decimal 的全局编码设置
func AmountNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
