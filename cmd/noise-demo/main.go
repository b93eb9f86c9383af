// Command noise-demo pairs a Stratum V2 Noise responder and initiator over
// a loopback TCP connection, so the handshake and transport codec can be
// exercised end to end outside of a unit test. It is a demonstration
// harness, not a production pool or miner entrypoint.
package main

import (
	"encoding/binary"
	"log"
	"net"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/chimera-pool/sv2-noise/internal/config"
	"github.com/chimera-pool/sv2-noise/internal/stratum/v2/noise"
)

func main() {
	addr := config.GetEnv("NOISE_LISTEN_ADDR", "127.0.0.1:28333")
	validitySeconds := config.GetEnvInt64("NOISE_CERT_VALIDITY_SECONDS", noise.DefaultValiditySeconds)

	staticKey, err := btcec.NewPrivateKey()
	if err != nil {
		log.Fatalf("failed to generate responder static key: %v", err)
	}
	var staticPub [noise.DHKeySize]byte
	copy(staticPub[:], schnorr.SerializePubKey(staticKey.PubKey()))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("failed to listen on %s: %v", addr, err)
	}
	defer listener.Close()
	log.Printf("🚀 noise-demo responder listening on %s", addr)

	go runResponder(listener, staticKey, uint32(validitySeconds))

	time.Sleep(100 * time.Millisecond)
	runInitiator(addr, staticPub)
}

func runResponder(listener net.Listener, staticKey *btcec.PrivateKey, validitySeconds uint32) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Printf("Warning: accept error: %v", err)
			return
		}
		go handleResponderConn(conn, staticKey, validitySeconds)
	}
}

func handleResponderConn(conn net.Conn, staticKey *btcec.PrivateKey, validitySeconds uint32) {
	defer conn.Close()

	responder, err := noise.NewResponder(staticKey)
	if err != nil {
		log.Printf("Warning: failed to start responder: %v", err)
		return
	}

	var ie [noise.DHKeySize]byte
	if _, err := readFull(conn, ie[:]); err != nil {
		log.Printf("Warning: failed to read initiator ephemeral key: %v", err)
		return
	}

	validFrom := uint32(time.Now().Unix())
	msg2, err := responder.Step1(ie, staticKey, validFrom, validFrom+validitySeconds)
	if err != nil {
		log.Printf("Warning: handshake step 1 failed: %v", err)
		return
	}
	if _, err := conn.Write(msg2[:]); err != nil {
		log.Printf("Warning: failed to send handshake message 2: %v", err)
		return
	}

	cipherList, err := readFramed(conn)
	if err != nil {
		log.Printf("Warning: failed to read cipher list: %v", err)
		return
	}

	choice, transport, err := responder.Step3(cipherList)
	if err != nil {
		log.Printf("Warning: cipher negotiation failed: %v", err)
		return
	}
	if err := writeFramed(conn, choice); err != nil {
		log.Printf("Warning: failed to send cipher choice: %v", err)
		return
	}
	defer transport.Close()

	buf, err := readFramed(conn)
	if err != nil {
		log.Printf("Warning: failed to read transport message: %v", err)
		return
	}
	if err := transport.Decrypt(&buf); err != nil {
		log.Printf("Warning: failed to decrypt transport message: %v", err)
		return
	}
	log.Printf("✅ responder received: %q", buf)

	reply := []byte("hello from responder")
	if err := transport.Encrypt(&reply); err != nil {
		log.Printf("Warning: failed to encrypt reply: %v", err)
		return
	}
	if err := writeFramed(conn, reply); err != nil {
		log.Printf("Warning: failed to send reply: %v", err)
	}
}

func runInitiator(addr string, expectedRemoteStatic [noise.DHKeySize]byte) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		log.Fatalf("failed to dial %s: %v", addr, err)
	}
	defer conn.Close()

	initiator, err := noise.NewInitiator(expectedRemoteStatic)
	if err != nil {
		log.Fatalf("failed to start initiator: %v", err)
	}

	ie, err := initiator.Step0()
	if err != nil {
		log.Fatalf("handshake step 0 failed: %v", err)
	}
	if _, err := conn.Write(ie[:]); err != nil {
		log.Fatalf("failed to send initiator ephemeral key: %v", err)
	}

	var msg2 [170]byte
	if _, err := readFull(conn, msg2[:]); err != nil {
		log.Fatalf("failed to read handshake message 2: %v", err)
	}

	cipherList, err := initiator.Step2(msg2)
	if err != nil {
		log.Fatalf("handshake step 2 failed: %v", err)
	}
	if err := writeFramed(conn, cipherList); err != nil {
		log.Fatalf("failed to send cipher list: %v", err)
	}

	choice, err := readFramed(conn)
	if err != nil {
		log.Fatalf("failed to read cipher choice: %v", err)
	}
	transport, err := initiator.Step4(choice)
	if err != nil {
		log.Fatalf("cipher negotiation failed: %v", err)
	}
	defer transport.Close()

	msg := []byte("hello from initiator")
	if err := transport.Encrypt(&msg); err != nil {
		log.Fatalf("failed to encrypt message: %v", err)
	}
	if err := writeFramed(conn, msg); err != nil {
		log.Fatalf("failed to send message: %v", err)
	}

	reply, err := readFramed(conn)
	if err != nil {
		log.Fatalf("failed to read reply: %v", err)
	}
	if err := transport.Decrypt(&reply); err != nil {
		log.Fatalf("failed to decrypt reply: %v", err)
	}
	log.Printf("✅ initiator received: %q", reply)
}

// readFramed/writeFramed wrap the handshake's variable-length messages
// (cipher_list, cipher_choice, transport ciphertext) with a 2-byte
// little-endian length prefix; the fixed-size handshake messages (32 and
// 170 bytes) need no framing and are read with readFull directly.
func writeFramed(conn net.Conn, payload []byte) error {
	var lenPrefix [2]byte
	binary.LittleEndian.PutUint16(lenPrefix[:], uint16(len(payload)))
	if _, err := conn.Write(lenPrefix[:]); err != nil {
		return err
	}
	_, err := conn.Write(payload)
	return err
}

func readFramed(conn net.Conn) ([]byte, error) {
	var lenPrefix [2]byte
	if _, err := readFull(conn, lenPrefix[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint16(lenPrefix[:])
	buf := make([]byte, n)
	if _, err := readFull(conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
