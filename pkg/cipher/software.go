// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-crypto-backend.
//
// go-crypto-backend is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/xts"

	"github.com/jeremyhahn/go-crypto-backend/pkg/algorithm"
)

// direction selects which half of a session a transform serves.
type direction int

const (
	directionEncrypt direction = iota
	directionDecrypt
)

// transform is one direction of a construction.
type transform interface {
	apply(dst, src, iv []byte) error
	destroy()
}

// softwareSession holds two independently constructed one-direction
// transforms over the same key.
type softwareSession struct {
	suite *algorithm.CipherSuite
	enc   transform
	dec   transform
}

var _ Session = (*softwareSession)(nil)

// newSoftwareSession builds the encrypt context first and the decrypt
// context second, releasing the first when the second fails so a partial
// failure leaks nothing.
func newSoftwareSession(suite *algorithm.CipherSuite, key []byte) (*softwareSession, error) {
	enc, err := newSoftwareTransform(suite, key, directionEncrypt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitFailed, err)
	}
	dec, err := newSoftwareTransform(suite, key, directionDecrypt)
	if err != nil {
		enc.destroy()
		return nil, fmt.Errorf("%w: %v", ErrInitFailed, err)
	}
	return &softwareSession{suite: suite, enc: enc, dec: dec}, nil
}

func newSoftwareTransform(suite *algorithm.CipherSuite, key []byte, dir direction) (transform, error) {
	switch suite.Mode() {
	case algorithm.ModeXTS:
		c, err := xts.NewCipher(aes.NewCipher, key)
		if err != nil {
			return nil, err
		}
		return &xtsTransform{cipher: c, dir: dir}, nil
	case algorithm.ModeCBC:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return &cbcTransform{block: block, dir: dir}, nil
	case algorithm.ModeECB:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return &ecbTransform{block: block, dir: dir}, nil
	default:
		return nil, fmt.Errorf("mode %s has no software transform", suite.Mode())
	}
}

func (s *softwareSession) Encrypt(dst, src, iv []byte) error {
	if s.enc == nil {
		return fmt.Errorf("%w: session closed", ErrTransformFailed)
	}
	if err := checkGeometry(s.suite, dst, src, iv); err != nil {
		return err
	}
	return s.enc.apply(dst, src, iv)
}

func (s *softwareSession) Decrypt(dst, src, iv []byte) error {
	if s.dec == nil {
		return fmt.Errorf("%w: session closed", ErrTransformFailed)
	}
	if err := checkGeometry(s.suite, dst, src, iv); err != nil {
		return err
	}
	return s.dec.apply(dst, src, iv)
}

func (s *softwareSession) Suite() *algorithm.CipherSuite { return s.suite }

func (s *softwareSession) Close() error {
	if s.enc != nil {
		s.enc.destroy()
		s.enc = nil
	}
	if s.dec != nil {
		s.dec.destroy()
		s.dec = nil
	}
	return nil
}

// xtsTransform drives one direction of aes-xts. The software implementation
// addresses tweaks as 64-bit sector numbers, so the transform consumes the
// plain64 convention: iv[0:8] is the little-endian sector and iv[8:16] must
// be zero.
type xtsTransform struct {
	cipher *xts.Cipher
	dir    direction
}

func (t *xtsTransform) apply(dst, src, iv []byte) error {
	if len(src) == 0 {
		return nil
	}
	sector, err := plain64Sector(iv)
	if err != nil {
		return err
	}
	if t.dir == directionEncrypt {
		t.cipher.Encrypt(dst, src, sector)
	} else {
		t.cipher.Decrypt(dst, src, sector)
	}
	return nil
}

func (t *xtsTransform) destroy() {}

// plain64Sector decodes an XTS tweak in the plain64 convention.
func plain64Sector(iv []byte) (uint64, error) {
	for _, b := range iv[8:] {
		if b != 0 {
			return 0, fmt.Errorf("%w: xts tweak beyond 64-bit sector range",
				algorithm.ErrUnsupportedParameters)
		}
	}
	return binary.LittleEndian.Uint64(iv[:8]), nil
}

// cbcTransform drives one direction of aes-cbc, rebuilding the chaining
// state from the caller's IV on every call.
type cbcTransform struct {
	block stdcipher.Block
	dir   direction
}

func (t *cbcTransform) apply(dst, src, iv []byte) error {
	if len(src) == 0 {
		return nil
	}
	if t.dir == directionEncrypt {
		stdcipher.NewCBCEncrypter(t.block, iv).CryptBlocks(dst, src)
	} else {
		stdcipher.NewCBCDecrypter(t.block, iv).CryptBlocks(dst, src)
	}
	return nil
}

func (t *cbcTransform) destroy() {}

// ecbTransform applies the block primitive directly; crypto/cipher carries
// no ECB construction.
type ecbTransform struct {
	block stdcipher.Block
	dir   direction
}

func (t *ecbTransform) apply(dst, src, _ []byte) error {
	bs := t.block.BlockSize()
	for i := 0; i < len(src); i += bs {
		if t.dir == directionEncrypt {
			t.block.Encrypt(dst[i:i+bs], src[i:i+bs])
		} else {
			t.block.Decrypt(dst[i:i+bs], src[i:i+bs])
		}
	}
	return nil
}

func (t *ecbTransform) destroy() {}
