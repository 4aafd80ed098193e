package cache

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// SeedProducts catálogo inicial que se guarda cuando el almacén local está vacío
// y no hay remoto. Los IDs son fijos para que los enlaces del sitio sean estables.
func SeedProducts(now time.Time) []entity.Product {
	type seed struct {
		id, name, category, price, image, description string
		specs                                         []string
		featured                                      bool
	}
	seeds := []seed{
		{"1", "PVC Drainage Pipe 110mm", "Drainage Pipes", "45.99", "PVC+Pipe+110mm",
			"High-quality PVC drainage pipe, 110mm diameter, 6-meter length. Perfect for residential and commercial drainage systems.",
			[]string{"Diameter: 110mm", "Length: 6m"}, true},
		{"2", "PVC Elbow Joint 90°", "Pipe Fittings", "8.99", "Elbow+Joint",
			"Durable 90-degree elbow joint for PVC pipes. Available in multiple sizes for various plumbing applications.",
			[]string{"Angle: 90°"}, false},
		{"3", "PVC Ball Valve 25mm", "Valves", "24.99", "Ball+Valve",
			"Premium quality ball valve with lever handle. Suitable for water supply and irrigation systems.",
			[]string{"Diameter: 25mm", "Lever handle"}, true},
		{"4", "PVC Pressure Pipe 50mm", "Pressure Pipes", "32.99", "Pressure+Pipe",
			"High-pressure PVC pipe for water supply systems. Meets Australian standards for potable water.",
			[]string{"Diameter: 50mm", "Potable water rated"}, false},
		{"5", "PVC T-Junction", "Pipe Fittings", "12.99", "T-Junction",
			"Three-way T-junction fitting for connecting multiple pipe sections. Available in various sizes.",
			[]string{"Three-way"}, false},
		{"6", "PVC Pipe Cutter", "Tools", "89.99", "Pipe+Cutter",
			"Professional-grade pipe cutter for clean, precise cuts on PVC pipes up to 63mm diameter.",
			[]string{"Max diameter: 63mm"}, true},
		{"7", "PVC Solvent Cement", "Adhesives", "16.99", "Solvent+Cement",
			"High-strength solvent cement for permanent PVC pipe joints. Fast-setting formula for quick installation.",
			[]string{"Fast-setting"}, false},
		{"8", "PVC Reducer Coupling", "Pipe Fittings", "9.99", "Reducer",
			"Reducer coupling for connecting pipes of different diameters. Available in multiple size combinations.",
			[]string{"Multiple size combinations"}, false},
	}

	out := make([]entity.Product, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, entity.Product{
			ID:             s.id,
			Name:           s.name,
			Category:       s.category,
			Price:          decimal.RequireFromString(s.price),
			Image:          "/placeholder.svg?height=300&width=300&text=" + s.image,
			Description:    s.description,
			Specifications: s.specs,
			Status:         entity.ProductActive,
			Featured:       s.featured,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return out
}

// SeedCategories categorías usadas por el catálogo inicial.
func SeedCategories(now time.Time) []entity.Category {
	names := []struct{ id, name, desc string }{
		{"c1", "Drainage Pipes", "PVC pipes for drainage and sewage systems"},
		{"c2", "Pressure Pipes", "PVC pipes for pressurised water supply"},
		{"c3", "Pipe Fittings", "Elbows, junctions, couplings and reducers"},
		{"c4", "Valves", "Ball valves and flow control"},
		{"c5", "Tools", "Cutting and installation tools"},
		{"c6", "Adhesives", "Solvent cements and sealants"},
	}
	out := make([]entity.Category, 0, len(names))
	for _, n := range names {
		out = append(out, entity.Category{ID: n.id, Name: n.name, Description: n.desc, CreatedAt: now})
	}
	return out
}
