package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	corsMethods = []string{"GET", "POST", "OPTIONS"}
	corsHeaders = []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"}
)

// SetPreflightHeaders writes the CORS headers on requests the CORS
// middleware skipped because they carry no Origin header
func SetPreflightHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", strings.Join(corsMethods, ","))
	c.Header("Access-Control-Allow-Headers", strings.Join(corsHeaders, ","))
}

// CORS returns a permissive CORS middleware. Preflight requests are
// answered with an empty 200.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              corsMethods,
		AllowHeaders:              corsHeaders,
		ExposeHeaders:             []string{RequestIDHeader},
		OptionsResponseStatusCode: http.StatusOK,
	})
}
