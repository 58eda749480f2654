package scoreboard

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

const scoreboardPage = `<table class="scoreboard">
<thead>
<tr class="scoreheader">
	<th title="">rank</th>
	<th title="team name">team</th>
	<th title="# solved / penalty time">score</th>
	<th title="problem A">A</th>
	<th title="problem B">B</th>
</tr>
</thead>
<tbody>
<tr>
	<td class="scorepl">1</td>
	<td class="scoretn"><span>team Red Pandas</span><span class="univ">Utrecht University</span></td>
	<td class="scorenc">2</td>
	<td class="scorett">38</td>
	<td class="score_cell">1 20</td>
	<td class="score_cell">1 2 18</td>
</tr>
<tr>
	<td id="scoresummary" class="scorenc">2</td>
	<td>x</td><td>y</td>
	<td>1 2</td>
	<td>1 3</td>
</tr>
</tbody>
</table>`

func TestParse(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(scoreboardPage))
	if err != nil {
		t.Fatal(err)
	}

	data, err := parse(doc)
	if err != nil {
		t.Fatal(err)
	}

	expected := [][]string{
		{"Rank", "TeamAffiliation", "TeamName", "SolvedCount", "Score", "A", "B"},
		{"1", "Utrecht University", "Pandas", "2", "38", "1 20", "1/2 18"},
		{"", "", "", "2", "", "1/2", "1/3"},
	}
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Fatalf("unexpected scoreboard data (-want +got):\n%s", diff)
	}
}

func TestParseMissingHeader(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<table></table>`))
	if err != nil {
		t.Fatal(err)
	}

	_, err = parse(doc)
	if err == nil {
		t.Fatal("expected a structural error for a page without a score header")
	}
}
