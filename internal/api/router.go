package api

import (
	"net/http"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"go.uber.org/zap"
)

func methodNotAllowed(w http.ResponseWriter) {
	respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// NewRouter wires every route. Catalog and health routes are public; the
// rest run behind the client middleware.
func NewRouter(handlers *Handlers, jwtService *auth.JWTService, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	client := middleware.ClientMiddleware(jwtService, logger)

	mux.HandleFunc("/healthz", handlers.Health)

	// Catalog
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetProducts(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetProduct(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/services", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetServices(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/services/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetService(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetCategories(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Cart
	mux.Handle("/cart", client(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetCart(w, r)
		case http.MethodDelete:
			handlers.ClearCart(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	mux.Handle("/cart/items", client(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.AddToCart(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	mux.Handle("/cart/items/", client(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			handlers.UpdateCartItem(w, r)
		case http.MethodDelete:
			handlers.RemoveFromCart(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Session
	mux.Handle("/auth/login", client(postOnly(handlers.Login)))
	mux.Handle("/auth/register", client(postOnly(handlers.Register)))
	mux.Handle("/auth/logout", client(postOnly(handlers.Logout)))

	mux.Handle("/auth/me", client(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.Me(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	mux.Handle("/auth/profile", client(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			handlers.UpdateProfile(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Orders
	mux.Handle("/orders", client(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetOrders(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	mux.Handle("/orders/", client(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method != http.MethodGet:
			methodNotAllowed(w)
		case r.URL.Path == "/orders/stats":
			handlers.GetOrderStats(w, r)
		default:
			handlers.GetOrder(w, r)
		}
	})))

	return middleware.Logging(logger)(mux)
}

func postOnly(fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		fn(w, r)
	})
}
