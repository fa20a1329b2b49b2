package catalog

import (
	"sort"

	"order-entry/models"
)

// 分组标题
const (
	GroupFrequent = "Frequently Used"
	GroupCustom   = "Your Custom Items"
	GroupAll      = "All Accessories"
	GroupOther    = "Other"
)

// CustomOptionLabel 自定义选项的显示文本
const CustomOptionLabel = "Add New Custom Item..."

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count,omitempty"`
}

type Group struct {
	Label   string   `json:"label"`
	Options []Option `json:"options"`
}

// RankOptions 按使用次数生成下拉分组
//
// 使用过的内置配件按次数降序（次数相同保持目录顺序），再并入使用过的自定义配件后重新排序。
// "Frequently Used" 和 "Your Custom Items" 为空时省略，"All Accessories" 始终存在，最后是自定义入口。
func RankOptions(builtin, customs []models.Accessory, usage map[string]int) []Group {
	var frequent, others []Option
	for _, acc := range builtin {
		if n := usage[acc.Name]; n >= 1 {
			frequent = append(frequent, Option{Value: acc.Name, Label: acc.Name, Count: n})
		} else {
			others = append(others, Option{Value: acc.Name, Label: acc.Name})
		}
	}
	sortByCount(frequent)

	var unused []Option
	for _, c := range customs {
		if n := usage[c.Name]; n >= 1 {
			frequent = append(frequent, Option{Value: c.Name, Label: c.Name, Count: n})
		} else {
			unused = append(unused, Option{Value: c.Name, Label: c.Name})
		}
	}
	sortByCount(frequent)

	groups := make([]Group, 0, 4)
	if len(frequent) > 0 {
		groups = append(groups, Group{Label: GroupFrequent, Options: frequent})
	}
	if len(unused) > 0 {
		groups = append(groups, Group{Label: GroupCustom, Options: unused})
	}
	if others == nil {
		others = []Option{}
	}
	groups = append(groups, Group{Label: GroupAll, Options: others})
	groups = append(groups, Group{Label: GroupOther, Options: []Option{{Value: CustomSentinel, Label: CustomOptionLabel}}})
	return groups
}

func sortByCount(opts []Option) {
	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].Count > opts[j].Count
	})
}
