package firebase

import (
	"crypto/rsa"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"crypto/x509"

	"github.com/dgrijalva/jwt-go"
)

// Offline verification of Firebase ID tokens against Google's public
// certificates, tolerating recently expired tokens within interval.

const validationErrorExpired = "Token is expired"

var CertsAPIEndpoint = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

func VerifyJWTIDToken(t, projectID string, interval time.Duration) (uid string, ok bool) {
	parsed, err := jwt.Parse(t, func(t *jwt.Token) (interface{}, error) {
		cert, err := certificateFromToken(t)
		if err != nil {
			return "", err
		}
		return readPublicKey(cert)
	})

	if err != nil && err.Error() == validationErrorExpired {
		claims, valid := parsed.Claims.(jwt.MapClaims)
		if !valid {
			return "", false
		}
		if !withinInterval(claims, interval) {
			return "", false
		}
		uid, ok = claims["sub"].(string)
		return
	}

	if err != nil || !parsed.Valid {
		return "", false
	}

	if parsed.Header["alg"] != "RS256" {
		return "", false
	}

	return verifyPayload(parsed, projectID)
}

func withinInterval(claims jwt.MapClaims, interval time.Duration) bool {
	var expiry time.Time
	switch exp := claims["exp"].(type) {
	case float64:
		expiry = time.Unix(int64(exp), 0)
	case json.Number:
		v, _ := exp.Int64()
		expiry = time.Unix(v, 0)
	default:
		return false
	}
	return time.Now().Add(interval * -1).Before(expiry)
}

func verifyPayload(t *jwt.Token, projectID string) (uid string, ok bool) {
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}

	if aud, ok := claims["aud"].(string); !ok || aud != projectID {
		return "", false
	}

	if iss, ok := claims["iss"].(string); !ok || iss != "https://securetoken.google.com/"+projectID {
		return "", false
	}

	uid, ok = claims["sub"].(string)
	if !ok {
		return "", false
	}

	now := time.Now()
	for _, name := range []string{"auth_time", "iat"} {
		v, ok := claims[name].(float64)
		if !ok || !time.Unix(int64(v), 0).Before(now) {
			return "", false
		}
	}

	if claims.Valid() != nil {
		return "", false
	}

	return uid, true
}

func certificateFromToken(token *jwt.Token) ([]byte, error) {
	kid, ok := token.Header["kid"]
	if !ok {
		return nil, errors.New("kid not found")
	}

	kidString, ok := kid.(string)
	if !ok {
		return nil, errors.New("kid cast error to string")
	}

	certs, err := getCertificates()
	if err != nil {
		return nil, err
	}

	return []byte(certs[kidString]), nil
}

func getCertificates() (certs map[string]string, err error) {
	res, err := http.Get(CertsAPIEndpoint)
	if err != nil {
		return
	}
	defer res.Body.Close()

	data, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return
	}

	err = json.Unmarshal(data, &certs)
	return
}

func readPublicKey(cert []byte) (*rsa.PublicKey, error) {
	publicKeyBlock, _ := pem.Decode(cert)
	if publicKeyBlock == nil {
		return nil, errors.New("invalid public key data")
	}

	parsed, err := x509.ParseCertificate(publicKeyBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("readPublicKey: error parsing certificate: %w", err)
	}

	publicKey, ok := parsed.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("certificate does not hold an RSA public key")
	}

	return publicKey, nil
}
