package backendtest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/inventorypro/client-go/internal/core/domain"
)

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func (s *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.GET("/health", s.health)
	e.POST("/auth/login", s.login)
	e.POST("/auth/refresh", s.refresh)
	e.POST("/auth/logout", s.logout)

	api := e.Group("", s.auth)
	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)
	api.POST("/products", s.createProduct)
	api.PUT("/products/:id", s.updateProduct)
	api.DELETE("/products/:id", s.deleteProduct)
	api.POST("/inventory/update", s.adjustInventory)
	api.GET("/reports/inventory-summary", s.inventorySummary)
	api.GET("/reports/low-stock", s.lowStock)
	api.GET("/reports/inventory-movements", s.inventoryMovements)

	return e
}

func errJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// auth verifies the bearer token and resolves the calling actor. Expired
// tokens fail signature-plus-claims validation and yield 401, which is what
// drives the client's refresh-and-retry path.
func (s *Server) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return errJSON(c, http.StatusUnauthorized, "missing bearer token")
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(s.secret), nil
		})
		if err != nil {
			return errJSON(c, http.StatusUnauthorized, "invalid or expired token")
		}

		email, _ := claims["sub"].(string)
		user, ok := s.userByEmail(email)
		if !ok {
			return errJSON(c, http.StatusUnauthorized, "unknown subject")
		}
		c.Set("actor", &user.actor)
		return next(c)
	}
}

func actorFrom(c echo.Context) *domain.Actor {
	actor, _ := c.Get("actor").(*domain.Actor)
	return actor
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) login(c echo.Context) error {
	var body loginBody
	if err := c.Bind(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "malformed body")
	}
	if err := c.Validate(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "email and password are required")
	}

	user, ok := s.userByEmail(body.Email)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.passwordHash, []byte(body.Password)); err != nil {
		return errJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	access, refresh := s.IssueTokens(body.Email)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":         userJSON(user.actor),
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

type refreshBody struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (s *Server) refresh(c echo.Context) error {
	s.mu.Lock()
	s.refreshCalls++
	delay := s.refreshDelay
	s.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	var body refreshBody
	if err := c.Bind(&body); err != nil || body.RefreshToken == "" {
		return errJSON(c, http.StatusBadRequest, "refreshToken is required")
	}

	s.mu.Lock()
	email, ok := s.refreshTokens[body.RefreshToken]
	s.mu.Unlock()
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "refresh token invalid or revoked")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"accessToken": s.mintAccess(email, time.Now().Add(s.accessTTL)),
	})
}

func (s *Server) logout(c echo.Context) error {
	var body refreshBody
	if err := c.Bind(&body); err == nil && body.RefreshToken != "" {
		s.RevokeRefresh(body.RefreshToken)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listProducts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]interface{}, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, productJSON(*p))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getProduct(c echo.Context) error {
	p, ok := s.Product(c.Param("id"))
	if !ok {
		return errJSON(c, http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, productJSON(p))
}

type productBody struct {
	SKU          string `json:"sku" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Category     string `json:"category"`
	Quantity     int    `json:"quantity" validate:"gte=0"`
	ReorderLevel int    `json:"reorderLevel" validate:"gte=0"`
	DepartmentID string `json:"departmentId"`
}

type deptScope string

func (d deptScope) ResourceDepartmentID() string { return string(d) }

func (s *Server) createProduct(c echo.Context) error {
	var body productBody
	if err := c.Bind(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "malformed body")
	}
	if err := c.Validate(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "sku and name are required")
	}
	if !domain.CanModify(actorFrom(c), deptScope(body.DepartmentID)) {
		return errJSON(c, http.StatusForbidden, "not allowed for this department")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p := domain.Product{
		ID:           fmt.Sprintf("p%d", s.nextID),
		SKU:          body.SKU,
		Name:         body.Name,
		Category:     body.Category,
		Quantity:     body.Quantity,
		ReorderLevel: body.ReorderLevel,
		UpdatedAt:    time.Now().UTC(),
	}
	if body.DepartmentID != "" {
		p.Department = &domain.Department{ID: body.DepartmentID}
	}
	s.products[p.ID] = &p
	return c.JSON(http.StatusCreated, productJSON(p))
}

func (s *Server) updateProduct(c echo.Context) error {
	p, ok := s.Product(c.Param("id"))
	if !ok {
		return errJSON(c, http.StatusNotFound, "product not found")
	}
	if !domain.CanModify(actorFrom(c), &p) {
		return errJSON(c, http.StatusForbidden, "not allowed for this department")
	}

	var body productBody
	if err := c.Bind(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "malformed body")
	}
	if err := c.Validate(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "sku and name are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.products[p.ID]
	stored.SKU = body.SKU
	stored.Name = body.Name
	stored.Category = body.Category
	stored.Quantity = body.Quantity
	stored.ReorderLevel = body.ReorderLevel
	stored.UpdatedAt = time.Now().UTC()
	return c.JSON(http.StatusOK, productJSON(*stored))
}

func (s *Server) deleteProduct(c echo.Context) error {
	p, ok := s.Product(c.Param("id"))
	if !ok {
		return errJSON(c, http.StatusNotFound, "product not found")
	}
	if !domain.CanDelete(actorFrom(c)) {
		return errJSON(c, http.StatusForbidden, "deletion requires manager role")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, p.ID)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) adjustInventory(c echo.Context) error {
	var req domain.StockAdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "malformed body")
	}
	if err := c.Validate(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "quantityChanged must be a positive integer")
	}

	p, ok := s.Product(req.ProductID)
	if !ok {
		return errJSON(c, http.StatusNotFound, "product not found")
	}
	if !domain.CanModify(actorFrom(c), &p) {
		return errJSON(c, http.StatusForbidden, "not allowed for this department")
	}

	delta, err := domain.ComputeStockDelta(p.Quantity, req)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.products[p.ID]
	stored.Quantity = delta.NewQuantity
	stored.UpdatedAt = time.Now().UTC()
	s.movements = append(s.movements, movement{
		ProductID:       p.ID,
		ChangeType:      string(req.ChangeType),
		QuantityChanged: req.QuantityChanged,
		SignedChange:    delta.SignedChange,
		Reason:          req.Reason,
		ReferenceNumber: req.ReferenceNumber,
		Timestamp:       time.Now().UTC(),
		departmentID:    p.ResourceDepartmentID(),
		category:        p.Category,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"productId":        p.ID,
		"previousQuantity": delta.PreviousQuantity,
		"newQuantity":      delta.NewQuantity,
		"signedChange":     delta.SignedChange,
	})
}

type reportFilter struct {
	dateFrom, dateTo time.Time
	category         string
	departmentID     string
}

func parseFilter(c echo.Context) reportFilter {
	f := reportFilter{
		category:     c.QueryParam("category"),
		departmentID: c.QueryParam("departmentId"),
	}
	if v := c.QueryParam("dateFrom"); v != "" {
		f.dateFrom, _ = time.Parse("2006-01-02", v)
	}
	if v := c.QueryParam("dateTo"); v != "" {
		f.dateTo, _ = time.Parse("2006-01-02", v)
	}
	return f
}

func (f reportFilter) matchProduct(p *domain.Product) bool {
	if f.category != "" && p.Category != f.category {
		return false
	}
	if f.departmentID != "" && p.ResourceDepartmentID() != f.departmentID {
		return false
	}
	return true
}

func (f reportFilter) matchMovement(m movement) bool {
	if f.category != "" && m.category != f.category {
		return false
	}
	if f.departmentID != "" && m.departmentID != f.departmentID {
		return false
	}
	if !f.dateFrom.IsZero() && m.Timestamp.Before(f.dateFrom) {
		return false
	}
	if !f.dateTo.IsZero() && m.Timestamp.After(f.dateTo.Add(24*time.Hour)) {
		return false
	}
	return true
}

func (s *Server) inventorySummary(c echo.Context) error {
	filter := parseFilter(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	var totalProducts, totalQuantity, lowStock int
	for _, p := range s.products {
		if !filter.matchProduct(p) {
			continue
		}
		totalProducts++
		totalQuantity += p.Quantity
		if p.Quantity <= p.ReorderLevel {
			lowStock++
		}
	}
	return c.JSON(http.StatusOK, map[string]int{
		"totalProducts": totalProducts,
		"totalQuantity": totalQuantity,
		"lowStockCount": lowStock,
	})
}

func (s *Server) lowStock(c echo.Context) error {
	filter := parseFilter(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]interface{}, 0)
	for _, p := range s.products {
		if !filter.matchProduct(p) || p.Quantity > p.ReorderLevel {
			continue
		}
		out = append(out, map[string]interface{}{
			"productId":    p.ID,
			"name":         p.Name,
			"quantity":     p.Quantity,
			"reorderLevel": p.ReorderLevel,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) inventoryMovements(c echo.Context) error {
	filter := parseFilter(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]movement, 0)
	for _, m := range s.movements {
		if filter.matchMovement(m) {
			out = append(out, m)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func userJSON(a domain.Actor) map[string]interface{} {
	out := map[string]interface{}{
		"id":       a.ID,
		"name":     a.Name,
		"email":    a.Email,
		"role":     a.Role,
		"isActive": a.IsActive,
	}
	if a.Department != nil {
		out["department"] = map[string]string{"id": a.Department.ID, "name": a.Department.Name}
	}
	return out
}

func productJSON(p domain.Product) map[string]interface{} {
	out := map[string]interface{}{
		"id":        p.ID,
		"sku":       p.SKU,
		"name":      p.Name,
		"quantity":  p.Quantity,
		"updatedAt": p.UpdatedAt,
	}
	if p.Category != "" {
		out["category"] = p.Category
	}
	if p.ReorderLevel != 0 {
		out["reorderLevel"] = p.ReorderLevel
	}
	if p.Department != nil {
		out["department"] = map[string]string{"id": p.Department.ID, "name": p.Department.Name}
	}
	return out
}
