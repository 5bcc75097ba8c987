package model

// LinkDomain 已登记的自定义发布域名
// 短链只能发布在默认域名或此表中登记过的域名下
type LinkDomain struct {
	BaseModel
	Domain string `gorm:"size:255;uniqueIndex;not null" json:"domain"`
}
