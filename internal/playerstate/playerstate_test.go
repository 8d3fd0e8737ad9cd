package playerstate

import (
	"testing"

	"github.com/kees-jan/swoq-bot/internal/action"
)

func TestNewStateDefaults(t *testing.T) {
	st := New(1)
	if st.PlayerID != 1 {
		t.Errorf("PlayerID = %d, want 1", st.PlayerID)
	}
	if st.Next != action.None {
		t.Errorf("Next = %v, want action.None", st.Next)
	}
	if st.Active {
		t.Error("a freshly created state should not be Active")
	}
}

func TestGuardedRoundTripsThroughLockUnlock(t *testing.T) {
	g := NewGuarded(0)

	p := g.Lock()
	st := p.Get()
	st.Position.X = 5
	st.Active = true
	p.Set(st)
	p.Unlock()

	got := g.Get()
	if got.Position.X != 5 || !got.Active {
		t.Errorf("state after Lock/Set/Unlock = %+v, unexpected", got)
	}
}
