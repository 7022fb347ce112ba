package redis

import (
	"fmt"

	"github.com/mcoot/cricketreg/internal/model"
)

// Key prefix for all registration data
const keyPrefix = "cricketreg"

// registrationKey returns the Redis key for a PlayerRegistration
func registrationKey(id model.RegistrationID) string {
	return fmt.Sprintf("%s:registration:%s", keyPrefix, id)
}

// registrationsIndexKey returns the Redis key for the ZSET of all registrations by creation time
func registrationsIndexKey() string {
	return fmt.Sprintf("%s:idx:registrations", keyPrefix)
}

// leagueIndexKey returns the Redis key for the ZSET of a league's registrations by creation time
func leagueIndexKey(league model.League) string {
	return fmt.Sprintf("%s:idx:registrations:%s", keyPrefix, league)
}

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// adminsKey returns the Redis key for the SET of admin user IDs
func adminsKey() string {
	return fmt.Sprintf("%s:admins", keyPrefix)
}
