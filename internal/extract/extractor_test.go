package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestJSONLDProduct(t *testing.T) {
	t.Run("finds product block", func(t *testing.T) {
		html := `<html><head>
			<script type="application/ld+json">{"@type": "Product", "name": "Impact Driver", "offers": {"price": "99.90", "priceCurrency": "USD"}}</script>
		</head></html>`

		product := JSONLDProduct(html)
		require.NotNil(t, product)
		assert.Equal(t, "Impact Driver", product["name"])
	})

	t.Run("case insensitive type in array", func(t *testing.T) {
		html := `<script type="application/ld+json">{"@type": ["Thing", "PRODUCT"], "name": "Sander"}</script>`

		product := JSONLDProduct(html)
		require.NotNil(t, product)
		assert.Equal(t, "Sander", product["name"])
	})

	t.Run("top level array", func(t *testing.T) {
		html := `<script type="application/ld+json">[{"@type": "BreadcrumbList"}, {"@type": "Product", "name": "Router"}]</script>`

		product := JSONLDProduct(html)
		require.NotNil(t, product)
		assert.Equal(t, "Router", product["name"])
	})

	t.Run("malformed block is skipped", func(t *testing.T) {
		html := `
			<script type="application/ld+json">{{{ not json</script>
			<script type="application/ld+json">{"@type": "Product", "name": "Good One"}</script>`

		product := JSONLDProduct(html)
		require.NotNil(t, product)
		assert.Equal(t, "Good One", product["name"])
	})

	t.Run("sloppy json is repaired", func(t *testing.T) {
		html := `<script type="application/ld+json">{"@type": "Product", "name": "Trailing Comma",}</script>`

		product := JSONLDProduct(html)
		require.NotNil(t, product)
		assert.Equal(t, "Trailing Comma", product["name"])
	})

	t.Run("no product block", func(t *testing.T) {
		html := `<script type="application/ld+json">{"@type": "WebSite", "name": "Shop"}</script>`
		assert.Nil(t, JSONLDProduct(html))
	})

	t.Run("empty html", func(t *testing.T) {
		assert.Nil(t, JSONLDProduct(""))
	})
}

func TestMeta(t *testing.T) {
	doc := mustDoc(t, `<html><head>
		<meta property="og:title" content="OG Name">
		<meta name="description" content="A &amp; B">
	</head></html>`)

	assert.Equal(t, "OG Name", Meta(doc, "og:title"))
	assert.Equal(t, "A & B", Meta(doc, "description"))
	assert.Equal(t, "", Meta(doc, "og:image"))
	assert.Equal(t, "", Meta(nil, "og:title"))
}

func TestParseHTMLProductPrecedence(t *testing.T) {
	html := `<html><head>
		<title>Page Title | Shop</title>
		<meta property="og:title" content="OG Title">
		<meta property="og:price:amount" content="123.45">
		<script type="application/ld+json">{"@type": "Product", "name": "JSON-LD Name", "offers": {"price": "99.90", "priceCurrency": "usd"}}</script>
	</head></html>`

	fields := ParseHTMLProduct(html, "https://shop.test/p/drill-9000", nil)

	assert.Equal(t, "JSON-LD Name", fields.Name)
	require.NotNil(t, fields.SalePrice)
	assert.InDelta(t, 99.90, *fields.SalePrice, 0.0001)
	assert.Equal(t, "USD", fields.Currency)
	assert.Equal(t, "99.90", fields.PriceText)
	assert.Equal(t, "DRILL-9000", fields.SuggestedSKU)
}

func TestParseHTMLProductMetaFallbacks(t *testing.T) {
	html := `<html><head>
		<title>Cordless Drill 9000 - MegaShop</title>
		<meta property="og:image" content="/img/drill.png">
		<meta property="og:description" content="A powerful &quot;drill&quot;">
	</head>
	<body>Special offer: ₱2,499.00 this week only.</body></html>`

	fields := ParseHTMLProduct(html, "https://shop.test/products/cordless-drill", nil)

	assert.Equal(t, "Cordless Drill 9000 - MegaShop", fields.Name)
	assert.Equal(t, `A powerful "drill"`, fields.Description)
	assert.Equal(t, "https://shop.test/img/drill.png", fields.Image)
	require.NotNil(t, fields.SalePrice)
	assert.InDelta(t, 2499.00, *fields.SalePrice, 0.0001)
	assert.Equal(t, "", fields.Currency)
	assert.Equal(t, "CORDLESS-DRILL", fields.SuggestedSKU)
}

func TestParseHTMLProductOpenGraphTitle(t *testing.T) {
	html := `<html><head>
		<meta property="og:title" content="Cordless Drill">
		<title>should not win</title>
	</head></html>`

	fields := ParseHTMLProduct(html, "https://shop.test/x", nil)
	assert.Equal(t, "Cordless Drill", fields.Name)
}

func TestParseHTMLProductStructuredOverride(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">{"@type": "Product", "name": "Page Product"}</script>
	</head></html>`

	structured := map[string]any{
		"name":  "Provider Product",
		"image": []any{"https://cdn.test/a.jpg", "https://cdn.test/b.jpg"},
		"offers": map[string]any{
			"price":         149.0,
			"priceCurrency": "EUR",
		},
	}

	fields := ParseHTMLProduct(html, "https://shop.test/p/item", structured)

	assert.Equal(t, "Provider Product", fields.Name)
	assert.Equal(t, "https://cdn.test/a.jpg", fields.Image)
	require.NotNil(t, fields.SalePrice)
	assert.InDelta(t, 149.0, *fields.SalePrice, 0.0001)
	assert.Equal(t, "EUR", fields.Currency)
}

func TestParseHTMLProductOffersArray(t *testing.T) {
	html := `<script type="application/ld+json">{"@type": "Product", "name": "X", "offers": [{"price": "10.00", "priceCurrency": "GBP"}]}</script>`

	fields := ParseHTMLProduct(html, "https://shop.test/p/x-large", nil)
	require.NotNil(t, fields.SalePrice)
	assert.InDelta(t, 10.0, *fields.SalePrice, 0.0001)
	assert.Equal(t, "GBP", fields.Currency)
}

func TestParseHTMLProductImageObject(t *testing.T) {
	html := `<script type="application/ld+json">{"@type": "Product", "name": "X", "image": {"@type": "ImageObject", "url": "//cdn.test/pic.jpg"}}</script>`

	fields := ParseHTMLProduct(html, "https://shop.test/p/thing", nil)
	assert.Equal(t, "https://cdn.test/pic.jpg", fields.Image)
}

func TestParseHTMLProductEmpty(t *testing.T) {
	fields := ParseHTMLProduct("", "https://shop.test/p/widget-9000", nil)

	assert.Empty(t, fields.Name)
	assert.Nil(t, fields.SalePrice)
	// SKU still derives from the URL
	assert.Equal(t, "WIDGET-9000", fields.SuggestedSKU)
}

func TestParseHTMLProductLongDescriptionTruncation(t *testing.T) {
	long := strings.Repeat("very long description ", 30)
	html := `<html><head><meta name="description" content="` + long + `"></head></html>`

	fields := ParseHTMLProduct(html, "https://shop.test/p/item-one", nil)

	assert.LessOrEqual(t, len(fields.ShortDescription), 240)
	assert.True(t, strings.HasSuffix(fields.ShortDescription, "..."))
	assert.Equal(t, strings.TrimSpace(long), fields.LongDescription)
}
