package mailsmodels

import (
	"fmt"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/utils"
)

func Welcome(email string, name string) {
	subject := "Subject: Welcome to the platform \r\n"
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`
	<div style="background-color: #1F2937; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%; min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Welcome, %s</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">Your account is ready. Browse profiles, pick a plan and start a conversation whenever you like.</td>
				</tr>
			</tbody>
		</table>
	</div>
`, name)

	message := []byte(subject + mime + body)

	utils.SendMail(email, message)
}
