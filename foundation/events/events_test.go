package events_test

import (
	"testing"

	"github.com/ardanlabs/blocker/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Events(t *testing.T) {
	t.Log("Given the need to fan chain events out to receivers.")
	{
		evts := events.New("viewer:")

		ch := evts.Acquire("client")
		if again := evts.Acquire("client"); again != ch {
			t.Fatalf("\t%s\tShould get the same channel for the same id.", failed)
		}
		t.Logf("\t%s\tShould get the same channel for the same id.", success)

		evts.Send("state: MineNewBlock: MINING: started")
		evts.Send(`viewer: block: {"hash":"0x01"}`)

		if msg := <-ch; msg != `block: {"hash":"0x01"}` {
			t.Fatalf("\t%s\tShould only deliver prefixed messages without the prefix, got %q.", failed, msg)
		}
		t.Logf("\t%s\tShould only deliver prefixed messages without the prefix.", success)

		if err := evts.Release("client"); err != nil {
			t.Fatalf("\t%s\tShould be able to release the channel: %v", failed, err)
		}
		if _, open := <-ch; open {
			t.Fatalf("\t%s\tShould close a released channel.", failed)
		}
		t.Logf("\t%s\tShould close a released channel.", success)

		if err := evts.Release("client"); err == nil {
			t.Fatalf("\t%s\tShould fail to release an unknown id.", failed)
		}
		t.Logf("\t%s\tShould fail to release an unknown id.", success)

		other := evts.Acquire("other")
		evts.Shutdown()
		if _, open := <-other; open {
			t.Fatalf("\t%s\tShould close every channel on shutdown.", failed)
		}
		t.Logf("\t%s\tShould close every channel on shutdown.", success)
	}
}
