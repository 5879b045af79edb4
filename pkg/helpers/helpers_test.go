package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/gomega"
)

func TestJWTRoundTrip(t *testing.T) {
	g := NewWithT(t)
	m := NewJWTManager("s3cret", time.Hour)

	tok, exp, err := m.Generate("u1", "alice")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(exp).To(BeTemporally("~", time.Now().Add(time.Hour), 5*time.Second))

	claims, err := m.Parse(tok)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(claims.UserID).To(Equal("u1"))
	g.Expect(claims.Username).To(Equal("alice"))
	g.Expect(claims.SessionID).NotTo(BeEmpty())

	again, _, err := m.Generate("u1", "alice")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(again).NotTo(Equal(tok))
}

func TestJWTRejectsForeignAndExpired(t *testing.T) {
	g := NewWithT(t)
	m := NewJWTManager("s3cret", time.Hour)
	other := NewJWTManager("different", time.Hour)

	tok, _, _ := other.Generate("u1", "alice")
	_, err := m.Parse(tok)
	g.Expect(err).To(HaveOccurred())

	expired := &JWTManager{Secret: []byte("s3cret"), TTL: -time.Minute}
	tok, _, _ = expired.Generate("u1", "alice")
	_, err = m.Parse(tok)
	g.Expect(err).To(HaveOccurred())

	// no exp claim
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "u1"})
	tok, err = raw.SignedString([]byte("s3cret"))
	g.Expect(err).NotTo(HaveOccurred())
	_, err = m.Parse(tok)
	g.Expect(err).To(HaveOccurred())

	_, err = m.Parse("garbage")
	g.Expect(err).To(HaveOccurred())
}

func TestPasswordHashing(t *testing.T) {
	g := NewWithT(t)
	hash, err := HashPassword("secret123")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(hash).NotTo(Equal("secret123"))
	g.Expect(strings.HasPrefix(hash, "$2a$10$")).To(BeTrue())
	g.Expect(CompareHashAndPassword(hash, "secret123")).To(BeTrue())
	g.Expect(CompareHashAndPassword(hash, "secret124")).To(BeFalse())

	_, err = HashPassword(strings.Repeat("x", 73))
	g.Expect(err).To(MatchError(ErrPasswordTooLong))
}

func TestMinorUnits(t *testing.T) {
	g := NewWithT(t)
	cases := map[string]int64{
		"149.99": 14999,
		"0":      0,
		"5":      500,
		"5.5":    550,
		" 7.05 ": 705,
	}
	for in, want := range cases {
		got, err := ParseMinorUnits(in)
		g.Expect(err).NotTo(HaveOccurred(), in)
		g.Expect(got).To(Equal(want), in)
	}
	for _, bad := range []string{"-1", "1.999", "abc", "", "92233720368547758.08"} {
		_, err := ParseMinorUnits(bad)
		g.Expect(err).To(MatchError(ErrInvalidAmount), bad)
	}

	g.Expect(FormatMinorUnits(14999)).To(Equal("149.99"))
	g.Expect(FormatMinorUnits(5)).To(Equal("0.05"))
	g.Expect(FormatMoney(2499, "USD")).To(Equal("USD 24.99"))
	g.Expect(FormatMoney(2499, "")).To(Equal("24.99"))
}
