package session

import (
	"crypto/md5" //nolint:gosec // required by the daemon handshake
	"encoding/hex"
	"fmt"
	"time"

	"github.com/arloliu/go-rgpio/errcode"
	"github.com/arloliu/go-rgpio/wire"
)

// saltLen is the number of hex digits in each handshake salt.
const saltLen = 15

// SaltFunc returns the 15 hex digit client salt of a user handshake.
type SaltFunc func() string

// DefaultSalt derives the client salt from the wall clock in 100ns units.
func DefaultSalt() string {
	return fmt.Sprintf("%015x", uint64(time.Now().UnixNano()/100)&0xfffffffffffffff) //nolint:gosec
}

// ComputeDigest returns the lowercase hex MD5 of salt1, secret and salt2
// concatenated in that order.
func ComputeDigest(salt1, secret, salt2 string) string {
	sum := md5.Sum([]byte(salt1 + secret + salt2)) //nolint:gosec

	return hex.EncodeToString(sum[:])
}

// Authenticate logs user in with the shared secret.
//
// The handshake is two exchanges that must be adjacent on the wire, so both
// run inside one Transact:
//
//  1. USER with "salt1.user"; the status is the length of the server salt
//     that follows the reply.
//  2. PASSW with md5hex(salt1 + secret + salt2[:15]).
//
// The returned status is the PASSW result: 1 when the daemon granted the
// user's permissions, 0 when it fell back to the default permissions, or a
// negative daemon status. A negative USER status is returned unchanged and
// PASSW is not sent.
func (s *Session) Authenticate(user, secret string) (int32, error) {
	user = NormalizeUser(user)

	var result int32
	err := s.Transact(func(tx *Tx) error {
		salt1 := s.salt()

		status, err := tx.Execute(wire.NewCommand(wire.OpUser).Text(salt1 + "." + user))
		if err != nil {
			result = status
			return err
		}
		if status < 0 {
			result = status
			return nil
		}

		salt2, err := tx.ReadPayload(int(status))
		if err != nil {
			result = int32(errcode.CmdInterrupted)
			return err
		}
		if len(salt2) > saltLen {
			salt2 = salt2[:saltLen]
		}

		digest := ComputeDigest(salt1, secret, string(salt2))
		result, err = tx.Execute(wire.NewCommand(wire.OpPassword).Text(digest))

		return err
	})

	s.logger.Debug("user handshake", "user", user, "status", result)

	return result, err
}
