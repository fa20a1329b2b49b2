package catalog

import "order-entry/models"

// CustomSentinel 选择"自定义配件"时的选项值
const CustomSentinel = "custom"

// DefaultAccessories 内置配件目录，零件号留空表示存在多个零件号
var DefaultAccessories = []models.Accessory{
	{Name: "Alloy Wheels"},
	{Name: "Body Side Molding Kit"},
	{Name: "Car Audio"},
	{Name: "Car Charger"},
	{Name: "Car Body Cover"},
	{Name: "Cargo Chain"},
	{Name: "Floor Mat"},
	{Name: "Fog Lamp"},
	{Name: "Horn"},
	{Name: "Infotainment System"},
	{Name: "Mud Flap"},
	{Name: "Front Parking Sensor"},
	{Name: "Perfume"},
	{Name: "Power Window"},
	{Name: "Rain Visor"},
	{Name: "Remote Central Lock"},
	{Name: "Reverse Camera"},
	{Name: "Roof Carrier"},
	{Name: "Roof Rail"},
	{Name: "Scuff Plate"},
	{Name: "Seat Cover"},
	{Name: "Side Step"},
	{Name: "Side Step Flap"},
	{Name: "Speaker"},
	{Name: "Spoiler"},
	{Name: "Steering Cover"},
	{Name: "Sun Shade Set"},
	{Name: "Wheel Cover"},
	{Name: "Underbody"},
	{Name: "Paint Protection Film"},
}
