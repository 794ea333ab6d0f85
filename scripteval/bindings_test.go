// Copyright (C) 2026 Mucgly Authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package scripteval

import (
	"testing"

	"github.com/SnellerInc/mucgly/hook"
)

func TestNormalizeFlatPairs(t *testing.T) {
	got, err := normalizeMultiHookArgs([]any{"[[", "]]", "<%", "%>"})
	if err != nil {
		t.Fatal(err)
	}
	want := []hook.Triple{{Begin: "[[", End: "]]"}, {Begin: "<%", End: "%>"}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestNormalizeFlatPairsRejectsOddCount(t *testing.T) {
	if _, err := normalizeMultiHookArgs([]any{"[[", "]]", "<%"}); err == nil {
		t.Fatal("expected an error for an odd-length flat argument list")
	}
}

func TestNormalizeSingleStringListForm(t *testing.T) {
	got, err := normalizeMultiHookArgs([]any{[]string{"[[", "]]", "<%", "%>"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Begin != "[[" || got[1].End != "%>" {
		t.Fatalf("got %+v", got)
	}
}

func TestNormalizeSubListFormWithSuspend(t *testing.T) {
	got, err := normalizeMultiHookArgs([]any{
		[]any{
			[]any{"{{", "}}", "??"},
			[]any{"<%", "%>"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Begin != "{{" || got[0].End != "}}" || !got[0].HasSuspend || got[0].Suspend != "??" {
		t.Fatalf("got[0] = %+v", got[0])
	}
	if got[1].HasSuspend {
		t.Fatalf("got[1] should have no suspend, got %+v", got[1])
	}
}

func TestNormalizeRejectsMalformedSubList(t *testing.T) {
	if _, err := normalizeMultiHookArgs([]any{
		[]any{[]any{"only-one"}},
	}); err == nil {
		t.Fatal("expected an error for a one-element sub-list")
	}
}
