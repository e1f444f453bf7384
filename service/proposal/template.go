package proposal

import (
	"bytes"
	"text/template"
	"time"

	"vault/core"
)

const proposalTpl = `### #{{.ID}} NEW PROPOSAL "{{.Action}}"

| key | value |
| --- | ----- |
| id | {{.TraceID}} |
| date | {{.Date}} |
| creator | {{.Creator}} |
{{- range .Items}}
| {{.Key}} | {{.Value}}{{with .Hint}} ({{.}}){{end}} |
{{- end}}
{{with .VoteURL}}
vote: {{.}}
{{end}}`

type view struct {
	ID      int64
	Action  string
	TraceID string
	Date    string
	Creator string
	Items   []core.ProposalItem
	VoteURL string
}

func renderProposal(p *core.Proposal, items []core.ProposalItem, voteURL string) string {
	v := view{
		ID:      p.ID,
		Action:  p.Action.String(),
		TraceID: p.TraceID,
		Date:    p.CreatedAt.Format(time.RFC3339),
		Creator: p.Creator,
		Items:   items,
		VoteURL: voteURL,
	}

	t, err := template.New("-").Parse(proposalTpl)
	if err != nil {
		panic(err)
	}

	var b bytes.Buffer
	if err := t.Execute(&b, v); err != nil {
		panic(err)
	}

	return b.String()
}

const approvedByTpl = `Approved By {{.Reviewer}}

({{.ApprovedCount}} Votes In Total)
`

func renderApprovedBy(p *core.Proposal, by string) string {
	t, err := template.New("-").Parse(approvedByTpl)
	if err != nil {
		panic(err)
	}

	var b bytes.Buffer
	if err := t.Execute(&b, map[string]interface{}{
		"ApprovedCount": len(p.Votes),
		"Reviewer":      by,
	}); err != nil {
		panic(err)
	}

	return b.String()
}
