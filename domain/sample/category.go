package sample

import "strings"

// Category is the closed product category enumeration. Values are the labels
// shown to operators and written to spreadsheets.
type Category string

const (
	CategoryClothing           Category = "服饰内衣"
	CategoryBeauty             Category = "美妆护肤"
	CategoryJewelry            Category = "珠宝文玩"
	CategoryFood               Category = "食品饮料"
	CategoryShoesBags          Category = "鞋靴箱包"
	CategoryHome               Category = "智能家居"
	CategoryElectronics        Category = "3C数码"
	CategoryPersonalCare       Category = "个护家清"
	CategoryBaby               Category = "母婴宠物"
	CategorySports             Category = "运动户外"
	CategoryWatchesAccessories Category = "钟表配饰"
	CategoryFreshFood          Category = "生鲜"
	CategoryBooksEducation     Category = "图书教育"
	CategoryGiftsCreative      Category = "礼品文创"
	CategoryFlowersGardening   Category = "鲜花园艺"
	CategoryToysInstruments    Category = "玩具乐器"
	CategorySecondHand         Category = "二手商品"
	CategoryVirtualRecharge    Category = "虚拟充值"
	CategoryAutomotive         Category = "汽车整车"
	CategoryLocalLife          Category = "本地生活"
	CategoryLuxury             Category = "奢侈品"
	CategoryMedicalHealth      Category = "医疗健康"
	CategoryHealthSupplements  Category = "滋补保健"
	CategoryAlcohol            Category = "酒类"
	CategoryOther              Category = "其他"
)

var categories = []Category{
	CategoryClothing,
	CategoryBeauty,
	CategoryJewelry,
	CategoryFood,
	CategoryShoesBags,
	CategoryHome,
	CategoryElectronics,
	CategoryPersonalCare,
	CategoryBaby,
	CategorySports,
	CategoryWatchesAccessories,
	CategoryFreshFood,
	CategoryBooksEducation,
	CategoryGiftsCreative,
	CategoryFlowersGardening,
	CategoryToysInstruments,
	CategorySecondHand,
	CategoryVirtualRecharge,
	CategoryAutomotive,
	CategoryLocalLife,
	CategoryLuxury,
	CategoryMedicalHealth,
	CategoryHealthSupplements,
	CategoryAlcohol,
	CategoryOther,
}

// Categories returns every category in display order
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory matches s exactly (after trimming) against the enumeration
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if string(c) == s {
			return c, true
		}
	}
	return CategoryOther, false
}

// Valid reports whether c is a member of the enumeration
func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

func (c Category) String() string { return string(c) }
