package router_test

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oksasatya/shopease-api/internal/router"
)

var _ = Describe("ShopEase API", func() {
	var srv *testServer

	BeforeEach(func() {
		srv = newTestServer()
	})

	Describe("middleware", func() {
		It("stamps request id and security headers", func() {
			res := srv.do(http.MethodGet, "/health", "", nil)
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.Hdr.Get("X-Request-ID")).NotTo(BeEmpty())
			Expect(res.Body.RequestID).To(Equal(res.Hdr.Get("X-Request-ID")))
			Expect(res.Hdr.Get("X-Content-Type-Options")).To(Equal("nosniff"))
			Expect(res.Hdr.Get("X-Frame-Options")).To(Equal("DENY"))
		})

		It("keeps a well-formed incoming request id", func() {
			req := httptest.NewRequest(http.MethodGet, router.APIPrefix+"/health", nil)
			req.Header.Set("X-Request-ID", "3f2b8d4e-6a51-4c1e-9f7a-2d6c0b1e8a90")
			w := httptest.NewRecorder()
			srv.engine.ServeHTTP(w, req)
			Expect(w.Header().Get("X-Request-ID")).To(Equal("3f2b8d4e-6a51-4c1e-9f7a-2d6c0b1e8a90"))
		})

		It("answers unknown routes with the error envelope", func() {
			res := srv.do(http.MethodGet, "/nope", "", nil)
			Expect(res.Code).To(Equal(http.StatusNotFound))
			Expect(res.Body.Success).To(BeFalse())
		})

		It("serves expvar counters", func() {
			req := httptest.NewRequest(http.MethodGet, router.APIPrefix+"/debug/vars", nil)
			w := httptest.NewRecorder()
			srv.engine.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("orders_placed"))
		})
	})

	Describe("users and sessions", func() {
		It("registers without exposing the password", func() {
			res := srv.do(http.MethodPost, "/users", "", map[string]any{
				"username": "alice", "password": "secret123", "email": "alice@example.com",
			})
			Expect(res.Code).To(Equal(http.StatusCreated))
			Expect(string(res.Body.Data)).NotTo(ContainSubstring("password"))
			var u userView
			res.DataAs(&u)
			Expect(u.Username).To(Equal("alice"))
			Expect(u.Role).To(Equal("customer"))
		})

		It("rejects duplicate usernames with 409", func() {
			name := srv.register()
			res := srv.do(http.MethodPost, "/users", "", map[string]any{"username": name, "password": "secret123"})
			Expect(res.Code).To(Equal(http.StatusConflict))
		})

		It("validates registration fields", func() {
			res := srv.do(http.MethodPost, "/users", "", map[string]any{"username": "ab", "password": "123", "email": "nope"})
			Expect(res.Code).To(Equal(http.StatusBadRequest))
			var fields map[string]string
			Expect(json.Unmarshal(res.Body.Error, &fields)).To(Succeed())
			Expect(fields).To(HaveKey("username"))
			Expect(fields).To(HaveKey("password"))
			Expect(fields).To(HaveKey("email"))
		})

		It("uses one message for unknown user and wrong password", func() {
			name := srv.register()
			wrong := srv.do(http.MethodPost, "/users/login", "", map[string]any{"username": name, "password": "bad-password"})
			unknown := srv.do(http.MethodPost, "/users/login", "", map[string]any{"username": "ghost", "password": "secret123"})
			Expect(wrong.Code).To(Equal(http.StatusBadRequest))
			Expect(unknown.Code).To(Equal(http.StatusBadRequest))
			Expect(wrong.Body.Message).To(Equal(unknown.Body.Message))
		})

		It("enforces a single active session", func() {
			name := srv.register()
			first := srv.login(name, "secret123")
			Expect(first.Token).NotTo(BeEmpty())

			again := srv.do(http.MethodPost, "/users/login", "", map[string]any{"username": name, "password": "secret123"})
			Expect(again.Code).To(Equal(http.StatusForbidden))

			me := srv.do(http.MethodGet, "/users/me", first.Token, nil)
			Expect(me.Code).To(Equal(http.StatusOK))
		})

		It("allows login again after logout and expires the old token", func() {
			name := srv.register()
			first := srv.login(name, "secret123")

			Expect(srv.do(http.MethodPost, "/users/logout", first.Token, nil).Code).To(Equal(http.StatusOK))
			second := srv.login(name, "secret123")
			Expect(second.Token).NotTo(Equal(first.Token))

			stale := srv.do(http.MethodGet, "/users/me", first.Token, nil)
			Expect(stale.Code).To(Equal(http.StatusUnauthorized))
			Expect(stale.Body.Message).To(Equal("Session expired. Please login again."))
		})

		It("lets exactly one of two racing logins win", func() {
			name := srv.register()
			codes := make([]int, 2)
			var wg sync.WaitGroup
			for i := range codes {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					codes[i] = srv.do(http.MethodPost, "/users/login", "", map[string]any{"username": name, "password": "secret123"}).Code
				}(i)
			}
			wg.Wait()
			Expect(codes).To(ConsistOf(http.StatusOK, http.StatusForbidden))
		})

		It("rejects missing and malformed authorization", func() {
			Expect(srv.do(http.MethodGet, "/users/me", "", nil).Body.Message).To(Equal("Authorization header is required"))

			req := httptest.NewRequest(http.MethodGet, router.APIPrefix+"/users/me", nil)
			req.Header.Set("Authorization", "Token abc")
			w := httptest.NewRecorder()
			srv.engine.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("Invalid authorization format"))

			bad := srv.do(http.MethodGet, "/users/me", "not-a-jwt", nil)
			Expect(bad.Code).To(Equal(http.StatusUnauthorized))
			Expect(bad.Body.Message).To(Equal("Invalid or expired token"))
		})

		It("lists users publicly", func() {
			srv.register()
			res := srv.do(http.MethodGet, "/users", "", nil)
			Expect(res.Code).To(Equal(http.StatusOK))
			var users []userView
			res.DataAs(&users)
			Expect(len(users)).To(BeNumerically(">=", 2))
		})
	})

	Describe("catalog", func() {
		It("lists active items with pagination meta", func() {
			res := srv.do(http.MethodGet, "/items?page=2&page_size=4", "", nil)
			Expect(res.Code).To(Equal(http.StatusOK))
			var items []itemView
			res.DataAs(&items)
			Expect(items).To(HaveLen(4))
			var meta struct {
				Total    int `json:"total"`
				Page     int `json:"page"`
				PageSize int `json:"page_size"`
			}
			Expect(json.Unmarshal(res.Body.Meta, &meta)).To(Succeed())
			Expect(meta.Total).To(Equal(10))
			Expect(meta.Page).To(Equal(2))
			Expect(meta.PageSize).To(Equal(4))
		})

		It("returns an empty page past the end with the real total", func() {
			res := srv.do(http.MethodGet, "/items?page=9&page_size=5", "", nil)
			var items []itemView
			res.DataAs(&items)
			Expect(items).To(BeEmpty())
			Expect(string(res.Body.Meta)).To(ContainSubstring(`"total":10`))
		})

		It("returns an empty page for a page number that would overflow the offset", func() {
			res := srv.do(http.MethodGet, "/items?page=100000000000000000&page_size=100", "", nil)
			Expect(res.Code).To(Equal(http.StatusOK))
			var items []itemView
			res.DataAs(&items)
			Expect(items).To(BeEmpty())
			Expect(string(res.Body.Meta)).To(ContainSubstring(`"total":10`))
		})

		It("falls back to defaults for junk paging params", func() {
			res := srv.do(http.MethodGet, "/items?page=abc&page_size=-3", "", nil)
			Expect(string(res.Body.Meta)).To(ContainSubstring(`"page":1`))
			Expect(string(res.Body.Meta)).To(ContainSubstring(`"page_size":100`))
		})

		It("filters by category and name search", func() {
			res := srv.do(http.MethodGet, "/items?category=Home", "", nil)
			var home []itemView
			res.DataAs(&home)
			Expect(home).To(HaveLen(2))
			for _, it := range home {
				Expect(it.Category).To(Equal("Home"))
			}

			res = srv.do(http.MethodGet, "/items?category=All&search=WIRELESS", "", nil)
			var wireless []itemView
			res.DataAs(&wireless)
			Expect(wireless).To(HaveLen(2))
		})

		It("lists distinct categories", func() {
			res := srv.do(http.MethodGet, "/items/categories", "", nil)
			var cats []string
			res.DataAs(&cats)
			Expect(cats).To(ConsistOf("Accessories", "Electronics", "Home"))
		})

		It("searches by substring when no index is configured", func() {
			res := srv.do(http.MethodGet, "/items/search?q=keyboard", "", nil)
			Expect(res.Code).To(Equal(http.StatusOK))
			var items []itemView
			res.DataAs(&items)
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Mechanical Keyboard"))
		})

		It("gates item writes behind the admin role", func() {
			customer := srv.customer()
			body := map[string]any{"name": "Standing Desk", "price_decimal": "399.50", "category": "Home"}

			Expect(srv.do(http.MethodPost, "/items", "", body).Code).To(Equal(http.StatusUnauthorized))
			Expect(srv.do(http.MethodPost, "/items", customer.Token, body).Code).To(Equal(http.StatusForbidden))

			admin := srv.login(adminUsername, adminPassword)
			res := srv.do(http.MethodPost, "/items", admin.Token, body)
			Expect(res.Code).To(Equal(http.StatusCreated))
			var it itemView
			res.DataAs(&it)
			Expect(it.Price).To(Equal(int64(39950)))
			Expect(it.IsActive).To(BeTrue())
		})

		It("updates and soft-deletes items", func() {
			admin := srv.login(adminUsername, adminPassword)
			target := srv.items()[0]

			res := srv.do(http.MethodPut, "/items/"+target.ID, admin.Token, map[string]any{"price": 1234})
			Expect(res.Code).To(Equal(http.StatusOK))
			var it itemView
			res.DataAs(&it)
			Expect(it.Price).To(Equal(int64(1234)))
			Expect(it.Name).To(Equal(target.Name))

			Expect(srv.do(http.MethodDelete, "/items/"+target.ID, admin.Token, nil).Code).To(Equal(http.StatusOK))
			Expect(srv.do(http.MethodGet, "/items/"+target.ID, "", nil).Code).To(Equal(http.StatusNotFound))
			Expect(srv.items()).To(HaveLen(9))
		})

		It("reports image uploads as unavailable without object storage", func() {
			admin := srv.login(adminUsername, adminPassword)
			target := srv.items()[0]
			res := srv.do(http.MethodPost, "/items/"+target.ID+"/image", admin.Token, nil)
			Expect(res.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("cart", func() {
		It("returns an empty cart before anything is added", func() {
			c := srv.customer()
			res := srv.do(http.MethodGet, "/carts/my", c.Token, nil)
			Expect(res.Code).To(Equal(http.StatusOK))
			var cv cartView
			res.DataAs(&cv)
			Expect(cv.Items).To(BeEmpty())
			Expect(cv.Total).To(BeZero())
			Expect(cv.ItemCount).To(BeZero())
		})

		It("merges repeated adds into one line", func() {
			c := srv.customer()
			it := srv.items()[0]
			srv.addToCart(c.Token, it.ID, 0)
			cv := srv.addToCart(c.Token, it.ID, 2)
			Expect(cv.Items).To(HaveLen(1))
			Expect(cv.Items[0].Quantity).To(Equal(3))
			Expect(cv.Total).To(Equal(it.Price * 3))
			Expect(cv.ItemCount).To(Equal(3))
		})

		It("rejects unknown items and negative quantities", func() {
			c := srv.customer()
			Expect(srv.do(http.MethodPost, "/carts", c.Token, map[string]any{"item_id": "missing"}).Code).To(Equal(http.StatusNotFound))
			it := srv.items()[0]
			Expect(srv.do(http.MethodPost, "/carts", c.Token, map[string]any{"item_id": it.ID, "quantity": -1}).Code).To(Equal(http.StatusBadRequest))
		})

		It("caps line quantities, merges included", func() {
			c := srv.customer()
			it := srv.items()[0]
			res := srv.do(http.MethodPost, "/carts", c.Token, map[string]any{"item_id": it.ID, "quantity": int64(math.MaxInt64)})
			Expect(res.Code).To(Equal(http.StatusBadRequest))
			Expect(string(res.Body.Error)).To(ContainSubstring("quantity"))

			cv := srv.addToCart(c.Token, it.ID, 10000)
			Expect(cv.ItemCount).To(Equal(10000))
			res = srv.do(http.MethodPost, "/carts", c.Token, map[string]any{"item_id": it.ID, "quantity": 1})
			Expect(res.Code).To(Equal(http.StatusBadRequest))

			res = srv.do(http.MethodGet, "/carts/my", c.Token, nil)
			res.DataAs(&cv)
			Expect(cv.ItemCount).To(Equal(10000))
			Expect(cv.Total).To(Equal(it.Price * 10000))

			res = srv.do(http.MethodPut, "/carts/items/"+cv.Items[0].ID, c.Token, map[string]any{"quantity": 10001})
			Expect(res.Code).To(Equal(http.StatusBadRequest))
		})

		It("sets quantities, removes lines and clears the cart", func() {
			c := srv.customer()
			items := srv.items()
			srv.addToCart(c.Token, items[0].ID, 1)
			cv := srv.addToCart(c.Token, items[1].ID, 1)
			Expect(cv.Items).To(HaveLen(2))

			var lineA, lineB string
			for _, l := range cv.Items {
				if l.ItemID == items[0].ID {
					lineA = l.ID
				} else {
					lineB = l.ID
				}
			}

			res := srv.do(http.MethodPut, "/carts/items/"+lineA, c.Token, map[string]any{"quantity": 5})
			Expect(res.Code).To(Equal(http.StatusOK))
			res.DataAs(&cv)
			Expect(cv.ItemCount).To(Equal(6))

			res = srv.do(http.MethodPut, "/carts/items/"+lineB, c.Token, map[string]any{"quantity": 0})
			res.DataAs(&cv)
			Expect(cv.Items).To(HaveLen(1))

			Expect(srv.do(http.MethodDelete, "/carts/items/"+lineB, c.Token, nil).Code).To(Equal(http.StatusOK))
			Expect(srv.do(http.MethodPut, "/carts/items/"+lineB, c.Token, map[string]any{"quantity": 1}).Code).To(Equal(http.StatusNotFound))

			res = srv.do(http.MethodDelete, "/carts/my", c.Token, nil)
			res.DataAs(&cv)
			Expect(cv.Items).To(BeEmpty())
			Expect(cv.ID).NotTo(BeEmpty())
		})

		It("does not let one shopper touch another's cart line", func() {
			owner := srv.customer()
			other := srv.customer()
			cv := srv.addToCart(owner.Token, srv.items()[0].ID, 1)
			srv.addToCart(other.Token, srv.items()[1].ID, 1)

			res := srv.do(http.MethodPut, "/carts/items/"+cv.Items[0].ID, other.Token, map[string]any{"quantity": 9})
			Expect(res.Code).To(Equal(http.StatusNotFound))
		})

		It("lists every cart for admins only", func() {
			c := srv.customer()
			srv.addToCart(c.Token, srv.items()[0].ID, 1)
			Expect(srv.do(http.MethodGet, "/carts", c.Token, nil).Code).To(Equal(http.StatusForbidden))

			admin := srv.login(adminUsername, adminPassword)
			res := srv.do(http.MethodGet, "/carts", admin.Token, nil)
			Expect(res.Code).To(Equal(http.StatusOK))
			var carts []cartView
			res.DataAs(&carts)
			Expect(carts).NotTo(BeEmpty())
		})
	})

	Describe("orders", func() {
		It("checks out a cart into a confirmed order and empties the cart", func() {
			c := srv.customer()
			items := srv.items()
			srv.addToCart(c.Token, items[0].ID, 2)
			cv := srv.addToCart(c.Token, items[1].ID, 1)

			res := srv.do(http.MethodPost, "/orders", c.Token, map[string]any{"cart_id": cv.ID, "note": "leave at door"})
			Expect(res.Code).To(Equal(http.StatusCreated))
			var o orderView
			res.DataAs(&o)
			Expect(o.Status).To(Equal("confirmed"))
			Expect(o.Note).To(Equal("leave at door"))
			Expect(o.TotalAmount).To(Equal(items[0].Price*2 + items[1].Price))
			Expect(o.ItemCount).To(Equal(3))
			Expect(o.Items).To(HaveLen(2))

			after := srv.do(http.MethodGet, "/carts/my", c.Token, nil)
			var empty cartView
			after.DataAs(&empty)
			Expect(empty.ID).To(Equal(cv.ID))
			Expect(empty.Items).To(BeEmpty())
		})

		It("keeps the price snapshot after the catalog changes", func() {
			c := srv.customer()
			it := srv.items()[0]
			cv := srv.addToCart(c.Token, it.ID, 1)
			res := srv.do(http.MethodPost, "/orders", c.Token, map[string]any{"cart_id": cv.ID})
			var o orderView
			res.DataAs(&o)

			admin := srv.login(adminUsername, adminPassword)
			srv.do(http.MethodPut, "/items/"+it.ID, admin.Token, map[string]any{"price": it.Price + 500, "name": "Renamed"})

			got := srv.do(http.MethodGet, "/orders/"+o.ID, c.Token, nil)
			var again orderView
			got.DataAs(&again)
			Expect(again.Items[0].ItemPrice).To(Equal(it.Price))
			Expect(again.Items[0].ItemName).To(Equal(it.Name))
		})

		It("refuses empty and foreign carts", func() {
			c := srv.customer()
			cv := srv.addToCart(c.Token, srv.items()[0].ID, 1)
			srv.do(http.MethodDelete, "/carts/my", c.Token, nil)
			Expect(srv.do(http.MethodPost, "/orders", c.Token, map[string]any{"cart_id": cv.ID}).Code).To(Equal(http.StatusBadRequest))

			other := srv.customer()
			srv.addToCart(c.Token, srv.items()[0].ID, 1)
			Expect(srv.do(http.MethodPost, "/orders", other.Token, map[string]any{"cart_id": cv.ID}).Code).To(Equal(http.StatusNotFound))
			Expect(srv.do(http.MethodPost, "/orders", c.Token, map[string]any{"cart_id": "missing"}).Code).To(Equal(http.StatusNotFound))
		})

		It("places one order when the same cart is checked out twice at once", func() {
			c := srv.customer()
			cv := srv.addToCart(c.Token, srv.items()[0].ID, 1)

			codes := make([]int, 2)
			var wg sync.WaitGroup
			for i := range codes {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					codes[i] = srv.do(http.MethodPost, "/orders", c.Token, map[string]any{"cart_id": cv.ID}).Code
				}(i)
			}
			wg.Wait()
			Expect(codes).To(ConsistOf(http.StatusCreated, http.StatusBadRequest))
		})

		It("lists my orders newest first and hides others' orders", func() {
			c := srv.customer()
			items := srv.items()
			var ids []string
			for i := 0; i < 2; i++ {
				cv := srv.addToCart(c.Token, items[i].ID, 1)
				var o orderView
				srv.do(http.MethodPost, "/orders", c.Token, map[string]any{"cart_id": cv.ID}).DataAs(&o)
				ids = append(ids, o.ID)
			}

			var mine []orderView
			srv.do(http.MethodGet, "/orders/my", c.Token, nil).DataAs(&mine)
			Expect(mine).To(HaveLen(2))
			Expect(mine[0].ID).To(Equal(ids[1]))
			Expect(mine[0].ItemCount).To(Equal(1))

			other := srv.customer()
			Expect(srv.do(http.MethodGet, "/orders/"+ids[0], other.Token, nil).Code).To(Equal(http.StatusNotFound))
			Expect(srv.do(http.MethodGet, "/orders", other.Token, nil).Code).To(Equal(http.StatusForbidden))
		})

		It("moves status for admins and cancels only early orders", func() {
			c := srv.customer()
			cv := srv.addToCart(c.Token, srv.items()[0].ID, 1)
			var o orderView
			srv.do(http.MethodPost, "/orders", c.Token, map[string]any{"cart_id": cv.ID}).DataAs(&o)

			admin := srv.login(adminUsername, adminPassword)
			Expect(srv.do(http.MethodPatch, "/orders/"+o.ID+"/status", admin.Token, map[string]any{"status": "teleported"}).Code).
				To(Equal(http.StatusBadRequest))
			res := srv.do(http.MethodPatch, "/orders/"+o.ID+"/status", admin.Token, map[string]any{"status": "shipped"})
			Expect(res.Code).To(Equal(http.StatusOK))

			Expect(srv.do(http.MethodPost, "/orders/"+o.ID+"/cancel", c.Token, nil).Code).To(Equal(http.StatusBadRequest))

			cv = srv.addToCart(c.Token, srv.items()[1].ID, 1)
			var second orderView
			srv.do(http.MethodPost, "/orders", c.Token, map[string]any{"cart_id": cv.ID}).DataAs(&second)
			res = srv.do(http.MethodPost, "/orders/"+second.ID+"/cancel", c.Token, nil)
			Expect(res.Code).To(Equal(http.StatusOK))
			var cancelled orderView
			res.DataAs(&cancelled)
			Expect(cancelled.Status).To(Equal("cancelled"))

			var all []orderView
			srv.do(http.MethodGet, "/orders", admin.Token, nil).DataAs(&all)
			Expect(all).To(HaveLen(2))
		})
	})

	Describe("favorites", func() {
		It("toggles and lists favorites", func() {
			c := srv.customer()
			it := srv.items()[0]

			res := srv.do(http.MethodPost, "/users/favorites", c.Token, map[string]any{"item_id": it.ID})
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(string(res.Body.Data)).To(ContainSubstring(`"action":"added"`))

			var favs []itemView
			srv.do(http.MethodGet, "/users/favorites", c.Token, nil).DataAs(&favs)
			Expect(favs).To(HaveLen(1))
			Expect(favs[0].ID).To(Equal(it.ID))

			res = srv.do(http.MethodPost, "/users/favorites", c.Token, map[string]any{"item_id": it.ID})
			Expect(string(res.Body.Data)).To(ContainSubstring(`"action":"removed"`))

			Expect(srv.do(http.MethodPost, "/users/favorites", c.Token, map[string]any{"item_id": "missing"}).Code).
				To(Equal(http.StatusNotFound))
		})

		It("hides deactivated items from favorites", func() {
			c := srv.customer()
			items := srv.items()
			kept, retired := items[0], items[1]
			srv.do(http.MethodPost, "/users/favorites", c.Token, map[string]any{"item_id": kept.ID})
			srv.do(http.MethodPost, "/users/favorites", c.Token, map[string]any{"item_id": retired.ID})

			admin := srv.login(adminUsername, adminPassword)
			Expect(srv.do(http.MethodDelete, "/items/"+retired.ID, admin.Token, nil).Code).To(Equal(http.StatusOK))

			var favs []itemView
			srv.do(http.MethodGet, "/users/favorites", c.Token, nil).DataAs(&favs)
			Expect(favs).To(HaveLen(1))
			Expect(favs[0].ID).To(Equal(kept.ID))

			Expect(srv.do(http.MethodPost, "/users/favorites", c.Token, map[string]any{"item_id": retired.ID}).Code).
				To(Equal(http.StatusNotFound))
		})
	})
})
