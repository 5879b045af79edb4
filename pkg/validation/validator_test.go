package validation

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

type signup struct {
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,pwd"`
	Email    string `json:"email" binding:"omitempty,email"`
	Price    string `json:"price_decimal" binding:"omitempty,money"`
	Status   string `json:"status" binding:"omitempty,orderstatus"`
}

func bind(body string) (signup, error) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var s signup
	err := c.ShouldBindJSON(&s)
	return s, err
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	g := NewWithT(t)
	Init()

	_, err := bind(`{"username":"ab","password":"123","email":"x","price_decimal":"1.234","status":"lost"}`)
	g.Expect(err).To(HaveOccurred())
	d := ToDetails(err)
	g.Expect(d).To(HaveKeyWithValue("username", "must be between 3 and 100 characters long"))
	g.Expect(d).To(HaveKeyWithValue("password", "must be between 6 and 100 characters long"))
	g.Expect(d).To(HaveKeyWithValue("email", "must be a valid email"))
	g.Expect(d).To(HaveKey("price_decimal"))
	g.Expect(d).To(HaveKey("status"))

	_, err = bind(`{"username":"alice","password":"secret123","price_decimal":"149.99","status":"shipped"}`)
	g.Expect(err).NotTo(HaveOccurred())
}

func TestToDetailsPayloadErrors(t *testing.T) {
	g := NewWithT(t)
	Init()

	_, err := bind(``)
	g.Expect(ToDetails(err)).To(HaveKeyWithValue("payload", "request body is required"))

	_, err = bind(`{"username":`)
	g.Expect(ToDetails(err)).To(HaveKey("payload"))

	_, err = bind(`{"username":42}`)
	g.Expect(ToDetails(err)).To(HaveKeyWithValue("username", "must be a string"))

	g.Expect(ToDetails(nil)).To(BeNil())
}
