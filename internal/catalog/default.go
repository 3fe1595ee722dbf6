// internal/catalog/default.go
package catalog

import (
	"cookie-storefront/internal/models"
)

var defaultProducts = []models.Product{
	{
		ID:          "c1",
		Name:        "iChoco Pro Max",
		Tagline:     "O chocolate mais avançado até hoje.",
		Description: "Três tipos de chocolate belga fundidos em um núcleo macio. Poder de processamento de açúcar inigualável.",
		Price:       390,
		ImageURL:    "https://images.unsplash.com/photo-1618923860182-f1e291d09273?auto=format&fit=crop&w=800&q=80",
		Ingredients: []string{"Chocolate Belga 70%", "Chocolate ao Leite", "Cacau em Pó", "Manteiga"},
		Accent:      "text-amber-900",
	},
	{
		ID:          "c2",
		Name:        "Red Velvet Air",
		Tagline:     "Incrivelmente leve.",
		Description: "Tão leve que você esquece que está comendo. Notas de cream cheese em uma arquitetura vermelha aveludada.",
		Price:       350,
		ImageURL:    "https://images.unsplash.com/photo-1624353365286-3f8d62daad51?auto=format&fit=crop&w=800&q=80",
		Ingredients: []string{"Cacau", "Cream Cheese", "Baunilha", "Corante Natural"},
		Accent:      "text-red-700",
	},
	{
		ID:          "c3",
		Name:        "Macadamia Studio",
		Tagline:     "Para os criativos.",
		Description: "Macadâmia premium com chocolate branco. Projetado para inspirar sua próxima grande ideia.",
		Price:       420,
		ImageURL:    "https://images.unsplash.com/photo-1558961363-fa8fdf82db35?auto=format&fit=crop&w=800&q=80",
		Ingredients: []string{"Macadâmia", "Chocolate Branco", "Açúcar Mascavo", "Flor de Sal"},
		Accent:      "text-yellow-600",
	},
	{
		ID:          "c4",
		Name:        "Matcha Mini",
		Tagline:     "Pequeno no tamanho. Gigante no Zen.",
		Description: "O poder do chá verde cerimonial. Uma experiência de sabor que cabe no seu bolso (não coloque no bolso).",
		Price:       300,
		ImageURL:    "https://images.unsplash.com/photo-1619148514797-0a8a2569f845?auto=format&fit=crop&w=800&q=80",
		Ingredients: []string{"Matcha Premium", "Chocolate Branco", "Manteiga", "Ovos"},
		Accent:      "text-green-700",
	},
	{
		ID:          "c5",
		Name:        "Dark Mode",
		Tagline:     "Preto absoluto.",
		Description: "85% Cacau. Para quem trabalha até tarde e prefere a interface escura da vida.",
		Price:       380,
		ImageURL:    "https://images.unsplash.com/photo-1559557229-838f5319579c?auto=format&fit=crop&w=800&q=80",
		Ingredients: []string{"Cacau 85%", "Carvão Ativado", "Sal Negro", "Espresso"},
		Accent:      "text-gray-900",
	},
	{
		ID:          "c6",
		Name:        "Classic One",
		Tagline:     "O original. Reinventado.",
		Description: "Apenas gotas de chocolate e massa de baunilha. Simplicidade é a máxima sofisticação.",
		Price:       250,
		ImageURL:    "https://images.unsplash.com/photo-1564842497547-09a72652691a?auto=format&fit=crop&w=800&q=80",
		Ingredients: []string{"Gotas de Chocolate", "Extrato de Baunilha", "Farinha", "Amor"},
		Accent:      "text-orange-600",
	},
}

// Default returns the built-in cookie collection.
func Default() *Catalog {
	c, err := New(defaultProducts)
	if err != nil {
		panic(err)
	}
	return c
}
