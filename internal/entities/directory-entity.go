package entities

// DirectoryRecord — сырая запись из внешнего каталога: DN плюс плоская
// карта атрибутов. Многозначные атрибуты каталог возвращает списками даже
// для одиночных значений; за пределы маппера эта карта не выходит.
type DirectoryRecord struct {
	DN         string
	Attributes map[string][]string
}
