// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"errors"
	"fmt"
	"net"
	"sync"
)

// maxDatagramSize bounds a single reply read.
const maxDatagramSize = 4096

// datagram is one read from a socket of the pool.
type datagram struct {
	from string
	buf  []byte
	err  error
}

// socketPool is an ordered set of connected UDP sockets, one per bound
// nameserver. A reader goroutine per socket forwards every datagram
// into a shared channel so a single wait loop can multiplex them.
type socketPool struct {
	conns   []net.Conn
	next    int
	packets chan datagram
	wg      sync.WaitGroup
}

// openPool connects one UDP socket to each nameserver.
func openPool(nameservers []Nameserver) (*socketPool, error) {
	if len(nameservers) == 0 {
		return nil, ErrNoNameservers
	}

	p := &socketPool{packets: make(chan datagram, 64)}
	for _, ns := range nameservers {
		conn, err := net.Dial("udp", ns.String())
		if err != nil {
			_ = p.close()
			return nil, fmt.Errorf("dnsbl: connect %s: %w", ns, err)
		}
		p.conns = append(p.conns, conn)
	}

	for _, conn := range p.conns {
		p.wg.Add(1)
		go p.read(conn)
	}
	return p, nil
}

func (p *socketPool) read(conn net.Conn) {
	defer p.wg.Done()
	from := conn.RemoteAddr().String()
	for {
		buf := make([]byte, maxDatagramSize)
		n, err := conn.Read(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			// A connected UDP socket reports ICMP errors (e.g.,
			// connection refused) on read; they count as a reply.
			p.packets <- datagram{from: from, err: err}
			continue
		}
		p.packets <- datagram{from: from, buf: buf[:n]}
	}
}

// send writes q on the next socket in round-robin order and returns
// the address it was sent to.
func (p *socketPool) send(q query) (string, error) {
	conn := p.conns[p.next]
	p.next = (p.next + 1) % len(p.conns)
	_, err := conn.Write(q.raw)
	return conn.RemoteAddr().String(), err
}

// drain discards datagrams that are already queued, such as late
// replies to a previous item.
func (p *socketPool) drain() int {
	n := 0
	for {
		select {
		case <-p.packets:
			n++
		default:
			return n
		}
	}
}

// close closes every socket and waits for the readers to exit.
func (p *socketPool) close() error {
	var errs []error
	for _, conn := range p.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	// Readers may be blocked on a full channel.
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	for {
		select {
		case <-done:
			return errors.Join(errs...)
		case <-p.packets:
		}
	}
}
