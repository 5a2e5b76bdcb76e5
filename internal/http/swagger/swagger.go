package swagger

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/inventory-service/api-contract"
)

const (
	DocsPath     = "/docs"
	SpecYAMLPath = "/docs/openapi.yml"
	SpecJSONPath = "/docs/openapi.json"
)

// Register serves the Swagger UI for doc along with the contract in YAML and
// JSON form.
func Register(r chi.Router, doc *openapi3.T) error {
	specJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}

	page := []byte(renderPage(doc.Info.Title, SpecYAMLPath))
	r.Get(DocsPath, serveBytes("text/html; charset=utf-8", page))
	r.Get(SpecYAMLPath, serveBytes("application/yaml", apicontract.GetSpecBytes()))
	r.Get(SpecJSONPath, serveBytes("application/json", specJSON))

	return nil
}

func serveBytes(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(body)
	}
}

func renderPage(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({ url: '%s', dom_id: '#swagger-ui', deepLinking: true });
  };
</script>
</body>
</html>
`, html.EscapeString(title), specPath)
}
