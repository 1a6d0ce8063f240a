package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApartmentHasMember(t *testing.T) {
	apt := &Apartment{Members: []string{"alice", "bob"}}
	assert.True(t, apt.HasMember("alice"))
	assert.False(t, apt.HasMember("carol"))

	var nilApt *Apartment
	assert.False(t, nilApt.HasMember("alice"))
}

func TestApartmentIsFull(t *testing.T) {
	apt := &Apartment{Capacity: 2, Members: []string{"a"}}
	assert.False(t, apt.IsFull())

	apt.Members = append(apt.Members, "b")
	assert.True(t, apt.IsFull())
}

func TestApartmentIsFullDefaultCapacity(t *testing.T) {
	apt := &Apartment{}
	for i := 0; i < DefaultCapacity-1; i++ {
		apt.Members = append(apt.Members, string(rune('a'+i)))
	}
	assert.False(t, apt.IsFull())

	apt.Members = append(apt.Members, "last")
	assert.True(t, apt.IsFull())
}

func TestApartmentSlot(t *testing.T) {
	apt := &Apartment{Members: []string{"alice", "bob"}}
	assert.Equal(t, 1, apt.Slot("alice"))
	assert.Equal(t, 2, apt.Slot("bob"))
	assert.Equal(t, 0, apt.Slot("carol"))
}
