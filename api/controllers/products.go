package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/oxygenixlabs/storefront/api/responses"
	"github.com/oxygenixlabs/storefront/internal/catalog"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/logger"
)

type productView struct {
	catalog.Product
	CategoryLabel string `json:"categoryLabel"`
	StartingPrice int64  `json:"startingPrice"`
}

type categoryView struct {
	ID           catalog.Category `json:"id"`
	Label        string           `json:"label"`
	ProductCount int              `json:"productCount"`
}

func newProductView(p catalog.Product) productView {
	return productView{
		Product:       p,
		CategoryLabel: p.Category.Label(),
		StartingPrice: p.StartingPrice(),
	}
}

// ProductsList returns the catalog, optionally narrowed by ?category=.
func ProductsList(lookup catalog.Lookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var products []catalog.Product
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, ok := catalog.ParseCategory(raw)
			if !ok {
				err := pkgerrors.New(pkgerrors.CodeValidation, "unknown category").WithDetails(map[string]any{"field": "category"})
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			products = lookup.GetProductsByCategory(category)
		} else {
			products = lookup.Products()
		}

		views := make([]productView, 0, len(products))
		for _, p := range products {
			views = append(views, newProductView(p))
		}
		responses.WriteSuccess(w, views)
	}
}

func ProductDetail(lookup catalog.Lookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, ok := lookup.GetProductBySlug(chi.URLParam(r, "slug"))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, newProductView(product))
	}
}

func CategoriesList(lookup catalog.Lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories := catalog.Categories()
		views := make([]categoryView, 0, len(categories))
		for _, c := range categories {
			views = append(views, categoryView{
				ID:           c,
				Label:        c.Label(),
				ProductCount: len(lookup.GetProductsByCategory(c)),
			})
		}
		responses.WriteSuccess(w, views)
	}
}
