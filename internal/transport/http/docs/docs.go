// Package docs serves the OpenAPI description of the HTTP surface through
// Swagger UI.
package docs

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	BasePath = "/api-docs"
	SpecPath = BasePath + "/openapi.yaml"
)

//go:embed openapi.yaml
var openAPISpec []byte

// Register mounts Swagger UI under BasePath. The UI loads the embedded
// document from SpecPath; "/api-docs" redirects to the UI index.
func Register(r gin.IRoutes) {
	ui := ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL(SpecPath),
		ginSwagger.DocExpansion("list"),
	)
	r.GET(BasePath+"/*any", func(c *gin.Context) {
		if c.Param("any") == "/openapi.yaml" {
			Spec(c)
			return
		}
		ui(c)
	})
}

func Spec(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", openAPISpec)
}
