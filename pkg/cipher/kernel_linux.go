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

//go:build linux

package cipher

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/jeremyhahn/go-crypto-backend/pkg/algorithm"
)

// kernelSession drives the Linux kernel crypto API through an AF_ALG
// skcipher socket. The transform socket carries the key; the accepted
// operation socket executes one request per call with the direction and IV
// attached as control messages.
type kernelSession struct {
	suite *algorithm.CipherSuite
	tfm   int
	op    int
}

var _ Session = (*kernelSession)(nil)

// newKernelSession binds the construction, sets the key and accepts the
// operation socket. Every failure path closes whatever was opened before
// it.
func newKernelSession(suite *algorithm.CipherSuite, key []byte) (Session, error) {
	tfm, err := unix.Socket(unix.AF_ALG, unix.SOCK_SEQPACKET|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: af_alg socket: %v", ErrInitFailed, err)
	}
	addr := &unix.SockaddrALG{Type: "skcipher", Name: suite.KernelName()}
	if err := unix.Bind(tfm, addr); err != nil {
		unix.Close(tfm)
		return nil, fmt.Errorf("%w: bind %s: %v", ErrInitFailed, suite.KernelName(), err)
	}
	if err := setALGKey(tfm, key); err != nil {
		unix.Close(tfm)
		return nil, fmt.Errorf("%w: set key: %v", ErrInitFailed, err)
	}
	op, err := acceptALG(tfm)
	if err != nil {
		unix.Close(tfm)
		return nil, fmt.Errorf("%w: accept operation socket: %v", ErrInitFailed, err)
	}
	return &kernelSession{suite: suite, tfm: tfm, op: op}, nil
}

// setALGKey issues ALG_SET_KEY through the raw setsockopt syscall so the
// key is read straight from the caller's buffer, never staged in an
// immutable string copy.
func setALGKey(fd int, key []byte) error {
	var p unsafe.Pointer
	if len(key) > 0 {
		p = unsafe.Pointer(&key[0])
	}
	_, _, errno := unix.Syscall6(unix.SYS_SETSOCKOPT, uintptr(fd),
		uintptr(unix.SOL_ALG), uintptr(unix.ALG_SET_KEY),
		uintptr(p), uintptr(len(key)), 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// acceptALG accepts with a null peer address. AF_ALG sockets do not report
// one.
func acceptALG(fd int) (int, error) {
	nfd, _, errno := unix.Syscall6(unix.SYS_ACCEPT4, uintptr(fd), 0, 0,
		uintptr(unix.SOCK_CLOEXEC), 0, 0)
	if errno != 0 {
		return -1, errno
	}
	return int(nfd), nil
}

func (s *kernelSession) Encrypt(dst, src, iv []byte) error {
	return s.crypt(dst, src, iv, unix.ALG_OP_ENCRYPT)
}

func (s *kernelSession) Decrypt(dst, src, iv []byte) error {
	return s.crypt(dst, src, iv, unix.ALG_OP_DECRYPT)
}

func (s *kernelSession) crypt(dst, src, iv []byte, op uint32) error {
	if s.op < 0 {
		return fmt.Errorf("%w: session closed", ErrTransformFailed)
	}
	if err := checkGeometry(s.suite, dst, src, iv); err != nil {
		return err
	}
	if len(src) == 0 {
		return nil
	}

	ivLen := 0
	if s.suite.IVSize() > 0 {
		ivLen = len(iv)
	}
	cbuf := make([]byte, controlSize(ivLen))
	putALGOp(cbuf, op)
	if ivLen > 0 {
		putALGIV(cbuf[unix.CmsgSpace(4):], iv)
	}

	// The whole request rides one sendmsg; the kernel rejects or truncates
	// anything beyond its request limits rather than carrying state over.
	n, err := unix.SendmsgN(s.op, src, cbuf, nil, 0)
	if err != nil {
		return fmt.Errorf("%w: sendmsg: %v", ErrTransformFailed, err)
	}
	if n != len(src) {
		return fmt.Errorf("%w: request truncated at %d of %d bytes",
			ErrTransformFailed, n, len(src))
	}
	for done := 0; done < len(dst); {
		m, err := unix.Read(s.op, dst[done:])
		if err != nil {
			return fmt.Errorf("%w: read: %v", ErrTransformFailed, err)
		}
		if m == 0 {
			return fmt.Errorf("%w: short read at %d of %d bytes",
				ErrTransformFailed, done, len(dst))
		}
		done += m
	}
	return nil
}

func (s *kernelSession) Suite() *algorithm.CipherSuite { return s.suite }

func (s *kernelSession) Close() error {
	var first error
	if s.op >= 0 {
		if err := unix.Close(s.op); err != nil {
			first = err
		}
		s.op = -1
	}
	if s.tfm >= 0 {
		if err := unix.Close(s.tfm); err != nil && first == nil {
			first = err
		}
		s.tfm = -1
	}
	return first
}

// Control message layout per request: ALG_SET_OP carrying the direction,
// then ALG_SET_IV carrying struct af_alg_iv, a 32-bit length followed by
// the IV bytes, all in native byte order.

func controlSize(ivLen int) int {
	size := unix.CmsgSpace(4)
	if ivLen > 0 {
		size += unix.CmsgSpace(4 + ivLen)
	}
	return size
}

func putALGOp(buf []byte, op uint32) {
	h := (*unix.Cmsghdr)(unsafe.Pointer(&buf[0]))
	h.Level = unix.SOL_ALG
	h.Type = unix.ALG_SET_OP
	h.SetLen(unix.CmsgLen(4))
	*(*uint32)(unsafe.Pointer(&buf[unix.CmsgLen(0)])) = op
}

func putALGIV(buf []byte, iv []byte) {
	h := (*unix.Cmsghdr)(unsafe.Pointer(&buf[0]))
	h.Level = unix.SOL_ALG
	h.Type = unix.ALG_SET_IV
	h.SetLen(unix.CmsgLen(4 + len(iv)))
	data := buf[unix.CmsgLen(0):]
	*(*uint32)(unsafe.Pointer(&data[0])) = uint32(len(iv))
	copy(data[4:], iv)
}

// KernelAvailable reports whether the kernel crypto API accepts skcipher
// sockets on this system.
func KernelAvailable() bool {
	fd, err := unix.Socket(unix.AF_ALG, unix.SOCK_SEQPACKET|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return false
	}
	defer unix.Close(fd)
	return unix.Bind(fd, &unix.SockaddrALG{Type: "skcipher", Name: "cbc(aes)"}) == nil
}
