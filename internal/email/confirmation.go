package email

import (
	"fmt"
	"net/url"
	"strconv"
)

const ConfirmationSubject = "Superlists - Email Verification"

// ConfirmationLinks arma el enlace publico de confirmacion de cuenta.
type ConfirmationLinks struct {
	Scheme string
	Host   string
}

// Link devuelve <scheme>://<host>/accounts/register/confirm/<profile_id>/<code>/.
func (l ConfirmationLinks) Link(profileID int64, code string) string {
	scheme := l.Scheme
	if scheme == "" {
		scheme = "http"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   l.Host,
		Path:   "/accounts/register/confirm/" + strconv.FormatInt(profileID, 10) + "/" + code + "/",
	}
	return u.String()
}

// ConfirmationBody construye el cuerpo del correo de verificacion.
func (l ConfirmationLinks) ConfirmationBody(profileID int64, code string) string {
	return fmt.Sprintf("Please confirm your registration by clicking this link: %s\n", l.Link(profileID, code))
}
