package notify

import (
	"fmt"

	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

// render produces the subject and plain-text body for a notification.
// baseURL is the public address used to build links back into the API.
func render(n ports.Notification, baseURL string) (subject, body string, err error) {
	name := n.Name
	if name == "" {
		name = "there"
	}

	switch n.Template {
	case ports.TemplateVerifyEmail:
		subject = "Verify your Pyxolotl account"
		body = fmt.Sprintf(
			"Hi %s,\n\nWelcome to Pyxolotl. Confirm your email address by visiting:\n\n%s/api/auth/verificar/%s\n\nThe link expires in 24 hours.\n",
			name, baseURL, n.Data["token"])
	case ports.TemplatePasswordReset:
		subject = "Reset your Pyxolotl password"
		body = fmt.Sprintf(
			"Hi %s,\n\nA password reset was requested for your account. Use this token to set a new password:\n\n%s\n\nIf you did not request this, ignore this message.\n",
			name, n.Data["token"])
	case ports.TemplatePurchase:
		subject = fmt.Sprintf("Order %s confirmed", n.Data["order"])
		body = fmt.Sprintf(
			"Hi %s,\n\nThanks for your purchase. Order %s for a total of $%s is complete and your games are already in your library:\n\n%s/api/biblioteca\n",
			name, n.Data["order"], n.Data["total"], baseURL)
	case ports.TemplateGameApproved:
		subject = fmt.Sprintf("%q is now live", n.Data["title"])
		body = fmt.Sprintf(
			"Hi %s,\n\nGood news: %q passed review and is now listed in the catalog.\n",
			name, n.Data["title"])
	case ports.TemplateGameRejected:
		subject = fmt.Sprintf("%q was not approved", n.Data["title"])
		body = fmt.Sprintf(
			"Hi %s,\n\nYour submission %q was rejected during review.\n\nReason: %s\n\nYou can address the feedback and submit again.\n",
			name, n.Data["title"], n.Data["reason"])
	default:
		return "", "", fmt.Errorf("unknown notification template %q", n.Template)
	}
	return subject, body, nil
}
