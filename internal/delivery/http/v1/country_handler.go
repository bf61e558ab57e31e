package v1

import (
	"net/http"
	"strings"

	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"

	"github.com/gin-gonic/gin"
)

type CountryHandler struct {
	countryUC domain.CountryUsecase
}

func NewCountryHandler(protected *gin.RouterGroup, countryUC domain.CountryUsecase) {
	handler := &CountryHandler{countryUC: countryUC}

	countries := protected.Group("/countries")
	{
		countries.GET("", handler.List)
		countries.GET("/:code", handler.Get)
	}
}

// List godoc
// @Summary      Countries and their data regions
// @Tags         countries
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Country}
// @Router       /countries [get]
// @Security     BearerAuth
func (h *CountryHandler) List(c *gin.Context) {
	countries, err := h.countryUC.ListCountries(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Countries retrieved", countries)
}

// Get godoc
// @Summary      Get a country
// @Tags         countries
// @Produce      json
// @Param        code  path      string  true  "ISO 3166-1 alpha-2 code"
// @Success      200   {object}  response.Response{data=domain.Country}
// @Router       /countries/{code} [get]
// @Security     BearerAuth
func (h *CountryHandler) Get(c *gin.Context) {
	country, err := h.countryUC.GetCountry(c.Request.Context(), strings.ToUpper(c.Param("code")))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Country retrieved", country)
}
