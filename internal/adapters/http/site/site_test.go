package site_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/okian/pathwise/internal/adapters/http/site"
	"github.com/okian/pathwise/internal/adapters/http/swagger"
	. "github.com/smartystreets/goconvey/convey"
)

var hrefPattern = regexp.MustCompile(`href="([^"]+)"`)

func landingPage(t *testing.T) string {
	t.Helper()
	f, err := site.FS().Open("index.html")
	if err != nil {
		t.Fatalf("open index.html: %v", err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read index.html: %v", err)
	}
	return string(b)
}

func TestLandingPageContent(t *testing.T) {
	Convey("Given the embedded landing page", t, func() {
		page := landingPage(t)

		Convey("Then it links the docs, health checks and metrics", func() {
			var links []string
			for _, m := range hrefPattern.FindAllStringSubmatch(page, -1) {
				links = append(links, m[1])
			}
			So(links, ShouldResemble, []string{
				"/style.css", "/api-docs", "/openapi.yaml", "/health", "/readyz", "/stats", "/metrics",
			})
		})

		Convey("Then its endpoint table lists every documented POST operation", func() {
			doc, err := yaml.Parser().Unmarshal(swagger.OpenAPI)
			So(err, ShouldBeNil)
			paths, _ := doc["paths"].(map[string]any)
			posts := 0
			for path, item := range paths {
				ops, _ := item.(map[string]any)
				if _, ok := ops["post"]; !ok {
					continue
				}
				posts++
				So(page, ShouldContainSubstring, "<td>"+path+"</td>")
			}
			So(posts, ShouldEqual, 3)
		})
	})
}

func TestLandingRoutes(t *testing.T) {
	mux := http.NewServeMux()
	site.Register(context.Background(), mux)
	swagger.Register(context.Background(), mux)

	get := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(method, path, http.NoBody))
		return w
	}

	Convey("Given the landing page mounted beside the docs", t, func() {
		Convey("When following the page's own docs links", func() {
			cases := []struct{ path, contentType string }{
				{"/", "text/html"},
				{"/style.css", "text/css"},
				{"/api-docs", "text/html"},
				{"/openapi.yaml", "application/yaml"},
			}

			Convey("Then each resolves to its handler", func() {
				for _, c := range cases {
					w := get(http.MethodGet, c.path)
					So(w.Code, ShouldEqual, http.StatusOK)
					So(w.Header().Get("Content-Type"), ShouldStartWith, c.contentType)
				}
			})
		})

		Convey("When the index file is requested by name", func() {
			w := get(http.MethodGet, "/index.html")

			Convey("Then it redirects to the root", func() {
				So(w.Code, ShouldEqual, http.StatusMovedPermanently)
				So(w.Header().Get("Location"), ShouldEqual, "./")
			})
		})

		Convey("When an unknown path falls through to the page", func() {
			So(get(http.MethodGet, "/roadmaps/42").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When a client posts to the page instead of an endpoint", func() {
			w := get(http.MethodPost, "/style.css")

			Convey("Then the method is refused", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, "GET, HEAD")
			})
		})

		Convey("When no mux is given", func() {
			So(func() { site.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
