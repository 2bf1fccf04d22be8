package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/call-alert/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"orNone": func(s string) string {
		if s == "" {
			return "none"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Call Alert</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Call Alert</h1>

<h2>Session</h2>
<table>
<tr><th>Alerting</th><td id="alerting" class="{{if .Alerting}}on{{else}}off{{end}}">{{if .Alerting}}yes{{else}}no{{end}}</td></tr>
<tr><th>Ringing call</th><td id="ringing-call">{{orNone .Session.RingingCall}}</td></tr>
<tr><th>Vibrating</th><td class="{{if .Session.Vibrating}}on{{else}}off{{end}}">{{if .Session.Vibrating}}{{orNone .Session.VibratingCall}}{{else}}no{{end}}</td></tr>
<tr><th>Torch</th><td class="{{if .Session.Flashing}}on{{else}}off{{end}}">{{if .Session.Flashing}}blinking{{else}}off{{end}}</td></tr>
<tr><th>Call waiting</th><td class="{{if .Session.CallWaitingTone}}on{{else}}off{{end}}">{{if .Session.CallWaitingTone}}{{orNone .Session.CallWaitingCall}}{{else}}no{{end}}</td></tr>
<tr><th>Vibration pattern</th><td>{{.Session.PatternStyle}}</td></tr>
{{with .LastEvent}}<tr><th>Last event</th><td id="last-event">{{.Type}} {{.CallID}} at {{.Timestamp.UTC.Format "15:04:05Z"}}</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Rings</th><td>{{.Counts.Rings}}</td></tr>
<tr><th>Rings skipped</th><td>{{.Counts.RingsSkipped}}</td></tr>
<tr><th>Vibrations</th><td>{{.Counts.Vibrations}}</td></tr>
<tr><th>Vibrations skipped</th><td>{{.Counts.VibrationSkipped}}</td></tr>
<tr><th>Call waiting</th><td>{{.Counts.CallWaiting}}</td></tr>
<tr><th>Flashes</th><td>{{.Counts.Flashes}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Settings</th><td>{{orNone .Config.SettingsPath}}</td></tr>
<tr><th>Vibrator pin</th><td>{{.Config.VibratorPin}}</td></tr>
<tr><th>Torch pins</th><td>{{range $i, $p := .Config.TorchPins}}{{if $i}}, {{end}}{{$p}}{{else}}none{{end}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() and Alerting() methods but the template wants fields.
	data := struct {
		status.Snapshot
		Uptime   time.Duration
		Alerting bool
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Alerting: snap.Alerting(),
	}
	indexTmpl.Execute(w, data)
}
