package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"storefront/models"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

func buildProductFilters(filter models.ProductFilter) ([]string, []interface{}) {
	conditions := []string{"p.is_published = true"}
	args := []interface{}{}

	addArg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		conditions = append(conditions, "p.name ILIKE "+addArg("%"+filter.Search+"%"))
	}
	if filter.GenderSlug != "" {
		conditions = append(conditions,
			"p.gender_id = (SELECT id FROM genders WHERE slug = "+addArg(filter.GenderSlug)+")")
	}
	if filter.Category != "" {
		conditions = append(conditions,
			"p.category_id = (SELECT id FROM categories WHERE slug = "+addArg(filter.Category)+")")
	}
	if filter.ColorSlug != "" {
		conditions = append(conditions,
			`EXISTS (SELECT 1 FROM product_variants v JOIN colors c ON v.color_id = c.id
			 WHERE v.product_id = p.id AND c.slug = `+addArg(filter.ColorSlug)+")")
	}
	if filter.SizeSlug != "" {
		conditions = append(conditions,
			`EXISTS (SELECT 1 FROM product_variants v JOIN sizes s ON v.size_id = s.id
			 WHERE v.product_id = p.id AND s.slug = `+addArg(filter.SizeSlug)+")")
	}
	if filter.PriceMin != nil {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = p.id AND COALESCE(v.sale_price, v.price) >= "+addArg(filter.PriceMin.String())+")")
	}
	if filter.PriceMax != nil {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = p.id AND COALESCE(v.sale_price, v.price) <= "+addArg(filter.PriceMax.String())+")")
	}

	return conditions, args
}

// GetProducts returns one catalog page matching the filter, with total count
// for pagination.
func (r *ProductRepository) GetProducts(ctx context.Context, filter models.ProductFilter) ([]models.ProductListItem, int, error) {
	conditions, args := buildProductFilters(filter)
	where := strings.Join(conditions, " AND ")

	// Same variant join as the page query, or products without variants
	// would count toward pages they never appear on.
	var total int
	countQuery := `SELECT COUNT(DISTINCT p.id)
		FROM products p
		JOIN product_variants pv ON pv.product_id = p.id
		WHERE ` + where
	if err := models.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "p.created_at DESC"
	switch filter.Sort {
	case "price_asc":
		orderBy = "min_price ASC"
	case "price_desc":
		orderBy = "min_price DESC"
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(`
		SELECT
			p.id,
			p.name,
			MIN(COALESCE(pv.sale_price, pv.price))::text AS min_price,
			MAX(COALESCE(pv.sale_price, pv.price))::text AS max_price,
			MIN(pv.sale_price)::text,
			COALESCE((
				SELECT pi.url FROM product_images pi
				WHERE pi.product_id = p.id
				ORDER BY pi.is_primary DESC, pi.sort_order ASC
				LIMIT 1
			), '/placeholder.jpg'),
			p.created_at
		FROM products p
		JOIN product_variants pv ON pv.product_id = p.id
		WHERE %s
		GROUP BY p.id
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		where, orderBy, len(args)-1, len(args))

	rows, err := models.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []models.ProductListItem{}
	for rows.Next() {
		var item models.ProductListItem
		var minPrice, maxPrice string
		var salePrice *string

		err := rows.Scan(&item.ID, &item.Name, &minPrice, &maxPrice, &salePrice, &item.ImageURL, &item.CreatedAt)
		if err != nil {
			return nil, 0, err
		}

		if item.MinPrice, err = decimal.NewFromString(minPrice); err != nil {
			return nil, 0, err
		}
		if item.MaxPrice, err = decimal.NewFromString(maxPrice); err != nil {
			return nil, 0, err
		}
		if salePrice != nil {
			sp, err := decimal.NewFromString(*salePrice)
			if err != nil {
				return nil, 0, err
			}
			item.SalePrice = &sp
		}

		items = append(items, item)
	}
	return items, total, rows.Err()
}

// GetProductByID loads the product page payload: the product, its variants
// with color and size, and its gallery images. Returns nil when the product
// does not exist or is unpublished.
func (r *ProductRepository) GetProductByID(ctx context.Context, id string) (*models.ProductDetail, error) {
	var p models.Product
	err := models.DB.QueryRow(ctx, `
		SELECT id, name, description, category_id, brand_id, gender_id, is_published, created_at, updated_at
		FROM products WHERE id = $1 AND is_published = true`,
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.BrandID, &p.GenderID, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	detail := &models.ProductDetail{Product: p}

	rows, err := models.DB.Query(ctx, `
		SELECT
			pv.id, pv.product_id, pv.sku, pv.price::text, pv.sale_price::text,
			pv.color_id, pv.size_id, pv.in_stock, pv.created_at,
			c.id, c.name, c.slug, c.hex_code,
			s.id, s.name, s.slug, s.sort_order
		FROM product_variants pv
		LEFT JOIN colors c ON pv.color_id = c.id
		LEFT JOIN sizes s ON pv.size_id = s.id
		WHERE pv.product_id = $1
		ORDER BY s.sort_order NULLS LAST, pv.sku`,
		id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v models.ProductVariant
		var price string
		var salePrice *string
		var colorID, colorName, colorSlug, colorHex *string
		var sizeID, sizeName, sizeSlug *string
		var sizeSort *int

		err := rows.Scan(
			&v.ID, &v.ProductID, &v.SKU, &price, &salePrice,
			&v.ColorID, &v.SizeID, &v.InStock, &v.CreatedAt,
			&colorID, &colorName, &colorSlug, &colorHex,
			&sizeID, &sizeName, &sizeSlug, &sizeSort,
		)
		if err != nil {
			return nil, err
		}

		if v.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		if salePrice != nil {
			sp, err := decimal.NewFromString(*salePrice)
			if err != nil {
				return nil, err
			}
			v.SalePrice = &sp
		}
		if colorID != nil {
			v.Color = &models.Color{ID: *colorID, Name: *colorName, Slug: *colorSlug, HexCode: *colorHex}
		}
		if sizeID != nil {
			v.Size = &models.Size{ID: *sizeID, Name: *sizeName, Slug: *sizeSlug, SortOrder: *sizeSort}
		}

		detail.Variants = append(detail.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	imgRows, err := models.DB.Query(ctx, `
		SELECT id, product_id, variant_id, url, sort_order, is_primary
		FROM product_images WHERE product_id = $1
		ORDER BY is_primary DESC, sort_order ASC`,
		id)
	if err != nil {
		return nil, err
	}
	defer imgRows.Close()

	for imgRows.Next() {
		var img models.ProductImage
		if err := imgRows.Scan(&img.ID, &img.ProductID, &img.VariantID, &img.URL, &img.SortOrder, &img.IsPrimary); err != nil {
			return nil, err
		}
		detail.Images = append(detail.Images, img)
	}
	return detail, imgRows.Err()
}

func (r *ProductRepository) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := models.DB.Query(ctx,
		`SELECT id, name, slug, parent_id, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.ParentID, &cat.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *ProductRepository) GetAllGenders(ctx context.Context) ([]models.Gender, error) {
	rows, err := models.DB.Query(ctx, `SELECT id, label, slug FROM genders ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genders := []models.Gender{}
	for rows.Next() {
		var g models.Gender
		if err := rows.Scan(&g.ID, &g.Label, &g.Slug); err != nil {
			return nil, err
		}
		genders = append(genders, g)
	}
	return genders, rows.Err()
}

func (r *ProductRepository) GetAllColors(ctx context.Context) ([]models.Color, error) {
	rows, err := models.DB.Query(ctx, `SELECT id, name, slug, hex_code FROM colors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colors := []models.Color{}
	for rows.Next() {
		var c models.Color
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.HexCode); err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, rows.Err()
}

func (r *ProductRepository) GetAllSizes(ctx context.Context) ([]models.Size, error) {
	rows, err := models.DB.Query(ctx, `SELECT id, name, slug, sort_order FROM sizes ORDER BY sort_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sizes := []models.Size{}
	for rows.Next() {
		var s models.Size
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.SortOrder); err != nil {
			return nil, err
		}
		sizes = append(sizes, s)
	}
	return sizes, rows.Err()
}
