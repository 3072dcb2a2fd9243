package catalog

// DefaultMenu is the seed catalog used when neither the remote API nor the
// local cache has products yet.
func DefaultMenu() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "Классик Сомса",
			Description: "Традиционная сомса с говядиной, луком и специями",
			Price:       10000,
			Image:       "/classic-somsa.jpg",
			Category:    CategoryClassic,
			Popular:     true,
		},
		{
			ID:          "2",
			Name:        "Сомса с бараниной",
			Description: "Сочная сомса с нежной бараниной и ароматными специями",
			Price:       12000,
			Image:       "/lamb-somsa.jpg",
			Category:    CategoryMeat,
			Popular:     true,
		},
		{
			ID:          "3",
			Name:        "Куриная Сомса",
			Description: "Легкая сомса с куриным филе, зеленью и специями",
			Price:       9000,
			Image:       "/chicken-somsa.jpg",
			Category:    CategoryChicken,
		},
		{
			ID:          "4",
			Name:        "Овощная Сомса",
			Description: "Вегетарианская сомса с тыквой, картофелем и морковью",
			Price:       8000,
			Image:       "/vegetable-somsa.jpg",
			Category:    CategoryVegetable,
		},
		{
			ID:          "5",
			Name:        "Особая Сомса Денов",
			Description: "Фирменная сомса с мясом, сыром и особым соусом шеф-повара",
			Price:       15000,
			Image:       "/special-somsa.jpg",
			Category:    CategorySpecial,
			Popular:     true,
		},
		{
			ID:          "6",
			Name:        "Сомса с тыквой",
			Description: "Традиционная сомса с сочной тыквой и специями",
			Price:       8500,
			Image:       "/pumpkin-somsa.jpg",
			Category:    CategoryVegetable,
		},
		{
			ID:          "7",
			Name:        "Сомса с картошкой",
			Description: "Классическая сомса с картофельной начинкой",
			Price:       8000,
			Image:       "/potato-somsa.jpg",
			Category:    CategoryVegetable,
			Popular:     true,
		},
		{
			ID:          "8",
			Name:        "Мини-Сомса (набор)",
			Description: "Набор из 5 мини-сомса разных вкусов",
			Price:       20000,
			Image:       "/mini-somsa.jpg",
			Category:    CategorySpecial,
			Popular:     true,
		},
	}
}
