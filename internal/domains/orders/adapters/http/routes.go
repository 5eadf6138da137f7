package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
)

// BasePath is the prefix of every order route.
const BasePath = "/api/order"

// Route describes one HTTP endpoint.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// Routes lists the order endpoints relative to BasePath.
func (api *OrderAPI) Routes() []Route {
	return []Route{
		{Name: "Verify", Method: nethttp.MethodGet, Pattern: "/verify", HandlerFunc: api.Verify},
		{Name: "Register", Method: nethttp.MethodPost, Pattern: "/register", HandlerFunc: api.Register},
		{Name: "UpdateStatus", Method: nethttp.MethodPatch, Pattern: "/update", HandlerFunc: api.UpdateStatus},
		{Name: "List", Method: nethttp.MethodGet, Pattern: "/list", HandlerFunc: api.List},
		{Name: "Delete", Method: nethttp.MethodDelete, Pattern: "/delete", HandlerFunc: api.Delete},
	}
}

// RegisterRoutes mounts the order endpoints under BasePath.
func RegisterRoutes(router gin.IRouter, api *OrderAPI) {
	group := router.Group(BasePath)
	for _, route := range api.Routes() {
		group.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
}
