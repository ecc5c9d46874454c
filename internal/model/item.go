package model

// MenuItem пункт меню портала (вид спорта / группа площадок)
type MenuItem struct {
	Name     string `json:"name"`
	ItemType string `json:"item_type"` // код типа у провайдера, например "0004"
	ImageURL string `json:"image_url"`
}

// BookingOption доступные даты и зоны для одного пункта меню.
// Порядок списков совпадает с порядком на странице портала.
type BookingOption struct {
	ItemType    string   `json:"item_type"`
	Dates       []string `json:"dates"`
	Areas       []string `json:"areas"`
	DefaultDate string   `json:"default_date"`
	DefaultArea string   `json:"default_area"`
}

// HasArea проверяет что зона есть в списке
func (o *BookingOption) HasArea(area string) bool {
	for _, a := range o.Areas {
		if a == area {
			return true
		}
	}
	return false
}
