package render

import (
	"bytes"
	"fmt"
	"html/template"
)

const tableRows = `{{define "empty"}}<div class="empty">{{.}}</div>{{end}}`

var fragments = map[Section]string{
	SectionKPI: `<div id="kpiUpcoming">{{.Upcoming}}</div>
<div id="kpiNextDate">{{.NextDate}}</div>
<div id="kpiRewards">{{.Rewards}}</div>
<div id="kpiTx">{{.Transactions}}</div>
<div id="kpiFines">{{.FinesLabel}}</div>`,

	SectionProfile: `<div class="row"><div class="tag">Name</div><div>{{.Name}}</div></div>
<div class="row"><div class="tag">Email</div><div>{{.Email}}</div></div>
<div class="row"><div class="tag">Role</div><div>{{.Role}}</div></div>
<div class="row"><div class="tag">Rewards</div><div>{{.Rewards}} pts</div></div>`,

	SectionNotifications: `{{if .Items}}<ul>{{range .Items}}<li>📩 {{.Text}} <span class="tag">{{.When}}</span></li>{{end}}</ul>` +
		`{{else}}{{template "empty" "No notifications yet."}}{{end}}`,

	SectionBookings: `{{if .Rows}}<table><thead><tr><th>Date</th><th>Type</th><th>Freq</th><th>Address</th><th>Status</th></tr></thead><tbody>` +
		`{{range .Rows}}<tr><td>{{.Date}}</td><td>{{.Type}}</td><td>{{.Freq}}</td><td>{{.Addr}}</td><td><span class="tag">{{.Status}}</span></td></tr>{{end}}` +
		`</tbody></table>{{else}}{{template "empty" "No bookings yet."}}{{end}}`,

	SectionTransactions: `{{if .Rows}}<table><thead><tr><th>When</th><th>Purpose</th><th>Amount</th></tr></thead><tbody>` +
		`{{range .Rows}}<tr><td>{{.When}}</td><td>{{.Purpose}}</td><td>{{.Amount}}</td></tr>{{end}}` +
		`</tbody></table>{{else}}{{template "empty" "No transactions yet."}}{{end}}`,

	SectionIncentives: `<div id="compReport">{{if .Fines}}<table><thead><tr><th>When</th><th>Amount</th></tr></thead><tbody>` +
		`{{range .Fines}}<tr><td>{{.When}}</td><td>{{.Amount}}</td></tr>{{end}}</tbody></table>` +
		`{{else}}{{template "empty" "No fines. You're doing great! 🎉"}}{{end}}</div>
<div id="rewardBox"><div class="row"><span class="tag">Current Points</span><div class="value">{{.Points}}</div></div></div>`,

	SectionCaptures: `{{if .Rows}}<table><thead><tr><th>Date</th><th>Type</th><th>Kg</th></tr></thead><tbody>` +
		`{{range .Rows}}<tr><td>{{.Date}}</td><td>{{.Type}}</td><td>{{.Kg}}</td></tr>{{end}}` +
		`</tbody></table>{{else}}{{template "empty" "No records yet."}}{{end}}`,

	SectionChart: `<svg viewBox="0 0 340 160" xmlns="http://www.w3.org/2000/svg">` +
		`<polyline fill="none" stroke="#1f2937" stroke-width="1" points="{{.AxisX}},{{.AxisTop}} {{.AxisX}},{{.Baseline}} {{.AxisRight}},{{.Baseline}}"/>` +
		`{{range .Bars}}<rect fill="#3b82f6" x="{{.X}}" y="{{.Y}}" width="{{.Width}}" height="{{.Height}}"><title>{{.Kg}} kg</title></rect>{{end}}</svg>`,

	SectionFacilities: `<div id="facTable"><table><thead><tr><th>Name</th><th>Type</th><th>Distance</th></tr></thead><tbody>` +
		`{{range .Facilities}}<tr><td>{{.Name}}</td><td>{{.Type}}</td><td>{{.Distance}}</td></tr>{{end}}</tbody></table></div>
<div id="ticketBox">{{if .Tickets}}<ul>{{range .Tickets}}<li>#{{.ID}} — {{.Text}} <span class="tag">{{.When}}</span></li>{{end}}</ul>` +
		`{{else}}{{template "empty" "No tickets."}}{{end}}</div>`,

	SectionTraining: `<ul id="trainList">{{range .Modules}}<li class="row"><div>{{.Title}} <span class="tag">{{.Mins}} mins</span></div>` +
		`<button class="btn" data-module="{{.ID}}">{{.Action}}</button></li>{{end}}</ul>
<div id="certBox">{{if .Certificates}}<div class="row"><span class="tag">Certificates</span><div>` +
		`{{range $i, $c := .Certificates}}{{if $i}} • {{end}}<a download href="#">{{$c}}</a>{{end}}</div></div>` +
		`{{else}}{{template "empty" "Complete modules to unlock certificates."}}{{end}}</div>`,

	SectionAdmin: `{{if .Allowed}}<div id="userTable"><table><thead><tr><th>Name</th><th>Email</th><th>Role</th><th>Rewards</th></tr></thead><tbody>` +
		`{{range .Users}}<tr><td>{{.Name}}</td><td>{{.Email}}</td><td>{{.Role}}</td><td>{{.Rewards}}</td></tr>{{end}}</tbody></table></div>
<div id="adminKPI"><div class="card"><div class="label">Total Users</div><div class="value">{{.TotalUsers}}</div></div>` +
		`<div class="card"><div class="label">Bookings</div><div class="value">{{.Bookings}}</div></div>` +
		`<div class="card"><div class="label">Collections</div><div class="value">{{.Collections}}</div></div>` +
		`<div class="card"><div class="label">Payments</div><div class="value">₹{{.Payments}}</div></div></div>
<div id="govtBox"><div class="row">{{range .Reports}}<span class="tag">{{.}}</span>{{end}}</div></div>` +
		`{{else}}<div id="govtBox"><div class="empty">{{.Message}}</div></div>{{end}}`,
}

var templates = parseFragments()

func parseFragments() map[Section]*template.Template {
	out := make(map[Section]*template.Template, len(fragments))
	for s, body := range fragments {
		t := template.Must(template.New(string(s)).Parse(tableRows))
		out[s] = template.Must(t.Parse(body))
	}
	return out
}

// HTML рендерит фрагмент секции; контейнер заменяется целиком
func HTML(section Section, view any) (string, error) {
	t, ok := templates[section]
	if !ok {
		return "", fmt.Errorf("%q: %w", section, ErrUnknownSection)
	}
	var buf bytes.Buffer
	err := t.Execute(&buf, view)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", section, err)
	}
	return buf.String(), nil
}
