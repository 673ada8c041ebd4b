// SPDX-License-Identifier: MIT
package cmd

import (
	"scope/internal/config"
	"scope/internal/transport"
	"scope/internal/transport/udp"
)

// openTransports starts every frame transport enabled in cfg. The logging
// transport is added in debug mode.
func openTransports(cfg *config.Config) (transport.Fanout, error) {
	var sinks transport.Fanout

	if cfg.Debug {
		sinks = append(sinks, transport.NewLoggingTransport())
	}

	if cfg.Transport.WebSocketEnabled {
		ws := transport.NewWebSocketTransport(cfg.Transport.WebSocketAddress)
		if err := ws.Start(); err != nil {
			ws.Close()
			sinks.Close()
			return nil, err
		}
		sinks = append(sinks, ws)
	}

	if cfg.Transport.UDPEnabled {
		sender, err := udp.NewUDPSender(cfg.Transport.UDPAddress)
		if err != nil {
			sinks.Close()
			return nil, err
		}
		pub, err := udp.NewUDPPublisher(cfg.Playback.Interval, sender)
		if err != nil {
			sender.Close()
			sinks.Close()
			return nil, err
		}
		pub.Start()
		sinks = append(sinks, pub)
	}

	return sinks, nil
}
