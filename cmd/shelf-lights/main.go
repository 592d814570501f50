// Command shelf-lights drives the RGB shelf lighting from an ultrasonic
// rangefinder and an IR remote, and publishes lighting events to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/shelf-lights/internal/gpio"
	"github.com/sweeney/shelf-lights/internal/light"
	"github.com/sweeney/shelf-lights/internal/logic"
	"github.com/sweeney/shelf-lights/internal/mode"
	"github.com/sweeney/shelf-lights/internal/mqtt"
	"github.com/sweeney/shelf-lights/internal/output"
	"github.com/sweeney/shelf-lights/internal/remote"
	"github.com/sweeney/shelf-lights/internal/sensor"
	"github.com/sweeney/shelf-lights/internal/status"
	"github.com/sweeney/shelf-lights/internal/store"
	"github.com/sweeney/shelf-lights/internal/web"
)

// startupPause is held before and after blanking the lights at startup.
const startupPause = 500 * time.Millisecond

type config struct {
	tick       time.Duration
	shelves    int
	sensorDev  string
	sensorBaud int
	pinSensor  int
	remoteDev  string
	remoteBaud int
	output     string
	i2cDev     string
	pcaAddr    int
	pinOE      int
	opcServer  string
	stateFile  string
	broker     string
	heartbeat  time.Duration
	httpAddr   string
	printState bool
}

func main() {
	var cfg config
	flag.DurationVar(&cfg.tick, "tick", 10*time.Millisecond, "Control loop interval")
	flag.IntVar(&cfg.shelves, "shelves", 4, "Number of RGB shelves")
	flag.StringVar(&cfg.sensorDev, "sensor", sensor.DefaultDevice, "Rangefinder serial device")
	flag.IntVar(&cfg.sensorBaud, "sensor-baud", sensor.DefaultBaud, "Rangefinder baud rate")
	flag.IntVar(&cfg.pinSensor, "pin-sensor-enable", gpio.DefaultPinSensorEnable, "BCM pin holding the rangefinder's ranging line high (-1 to disable)")
	flag.StringVar(&cfg.remoteDev, "remote", remote.DefaultDevice, "IR receiver serial device")
	flag.IntVar(&cfg.remoteBaud, "remote-baud", remote.DefaultBaud, "IR receiver baud rate")
	flag.StringVar(&cfg.output, "output", output.KindPCA9685, "LED output: pca9685, opc or none")
	flag.StringVar(&cfg.i2cDev, "i2c", "/dev/i2c-1", "I2C bus device for the PCA9685")
	flag.IntVar(&cfg.pcaAddr, "pca-addr", output.DefaultPCA9685Address, "PCA9685 I2C address")
	flag.IntVar(&cfg.pinOE, "pin-oe", gpio.DefaultPinOutputEnable, "BCM pin wired to the PCA9685 OE input (-1 if tied low)")
	flag.StringVar(&cfg.opcServer, "opc", "localhost:7890", "Open Pixel Control server address")
	flag.StringVar(&cfg.stateFile, "state-file", "/var/lib/shelf-lights/color", "Manual color persistence file")
	flag.StringVar(&cfg.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	flag.DurationVar(&cfg.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&cfg.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.BoolVar(&cfg.printState, "print-state", false, "Print the saved manual color and exit")

	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config) error {
	st := store.NewFileStore(cfg.stateFile)

	if cfg.printState {
		return printState(st)
	}

	enable, err := openPin(cfg.pinSensor, false)
	if err != nil {
		return fmt.Errorf("init sensor enable: %w", err)
	}
	rangefinder, err := sensor.NewRealReader(cfg.sensorDev, cfg.sensorBaud, enable)
	if err != nil {
		if enable != nil {
			enable.Close()
		}
		return fmt.Errorf("init sensor: %w", err)
	}
	defer rangefinder.Close()

	ir, err := remote.NewRealReader(cfg.remoteDev, cfg.remoteBaud)
	if err != nil {
		return fmt.Errorf("init remote: %w", err)
	}
	defer ir.Close()

	out, err := openOutput(cfg)
	if err != nil {
		return fmt.Errorf("init output: %w", err)
	}
	defer out.Close()

	matrix := light.NewMatrix(cfg.shelves, out)

	publisher := mqtt.NewRealPublisher(cfg.broker)
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      cfg.tick.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Shelves:     cfg.shelves,
		Output:      cfg.output,
		Broker:      cfg.broker,
		HTTPAddr:    cfg.httpAddr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	startup(matrix, out, time.Sleep)

	seed := uint64(time.Now().UnixNano())
	dispatcher := mode.New(matrix, st, rand.New(rand.NewPCG(seed, seed>>1)), time.Sleep)

	log.Printf("started: tick=%v shelves=%d output=%s broker=%s heartbeat=%v", cfg.tick, cfg.shelves, cfg.output, cfg.broker, cfg.heartbeat)

	ticker := time.NewTicker(cfg.tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(dispatcher, matrix, out, rangefinder, ir, publisher, publisher, tracker, cfg.heartbeat, time.Now, ticker.C, sigCh)
}

// startup blanks the lights between two pauses so the supply settles before
// the first mode runs.
func startup(m *light.Matrix, out light.Output, sleep func(time.Duration)) {
	sleep(startupPause)
	m.AllOff()
	if err := out.Flush(); err != nil {
		log.Printf("output flush error: %v", err)
	}
	sleep(startupPause)
}

func runLoop(d *mode.Dispatcher, m *light.Matrix, out light.Output, rangefinder sensor.Reader, ir remote.Reader, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	hb := logic.NewHeartbeat(now())

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}

			m.AllOff()
			if err := out.Flush(); err != nil {
				log.Printf("output flush error: %v", err)
			}
			return nil

		case <-tick:
			t := now()
			events := d.Tick(mode.Input{
				Time:     t,
				Distance: rangefinder.Distance(),
				Code:     ir.Next(),
			})

			if err := out.Flush(); err != nil {
				log.Printf("output flush error: %v", err)
			}

			for _, event := range events {
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
				}
			}

			if tracker != nil {
				tracker.Update(d, m.Colors())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if hbData := hb.Check(t, heartbeat); hbData != nil {
				c := d.Counts()
				log.Printf("heartbeat: uptime=%v mode=%s mode_changes=%d medium=%d close=%d exit=%d dim=%d",
					hbData.Uptime, d.Kind(), c.ModeChanges, c.Medium, c.Close, c.Exit, c.Dim)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

func openPin(pin int, high bool) (gpio.Pin, error) {
	if pin < 0 {
		return nil, nil
	}
	p, err := gpio.NewRealPin(pin, high)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func openOutput(cfg config) (output.Device, error) {
	switch cfg.output {
	case output.KindPCA9685:
		// OE is active low: hold the outputs off until the controller is set up.
		oe, err := openPin(cfg.pinOE, true)
		if err != nil {
			return nil, fmt.Errorf("init output enable: %w", err)
		}
		p, err := output.OpenPCA9685(cfg.i2cDev, cfg.pcaAddr, oe, cfg.shelves)
		if err != nil {
			if oe != nil {
				oe.Close()
			}
			return nil, err
		}
		return p, nil
	case output.KindOPC:
		o, err := output.DialOPC(cfg.opcServer, cfg.shelves)
		if err != nil {
			return nil, err
		}
		return o, nil
	case output.KindNone:
		return output.Discard{}, nil
	}
	return nil, fmt.Errorf("unknown output %q", cfg.output)
}

func printState(st store.Store) error {
	s, err := st.Load()
	if errors.Is(err, store.ErrNoState) {
		fmt.Println("no saved color")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load color state: %w", err)
	}
	fmt.Println(formatState(s))
	return nil
}

func formatState(s store.State) string {
	c := light.Color(s.Colors)
	return fmt.Sprintf("select: %c, color: %s (%s)", "RGB"[s.Select], c, c.Hex())
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
