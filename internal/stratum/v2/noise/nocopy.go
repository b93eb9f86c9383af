package noise

// noCopy lets `go vet`'s copylocks check flag accidental copies of the
// handshake roles and Transport. Go has no language-level non-Sync marker;
// embedding a type with Lock/Unlock methods recruits the existing vet
// check as a documented single-owner contract: handshake state and live
// AEAD counters must never be duplicated by value, only passed by pointer.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
