package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/telemetry-service/pkg/common"
	telemetryGrpc "liyu1981.xyz/telemetry-service/pkg/grpc"
)

var maxDevices int = 1000
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"
var apiKey string = "5588"

var httpClient *resty.Client
var grpcClient telemetryGrpc.TelemetryServiceClient

var rndMu sync.Mutex
var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

var failures atomic.Int64

type device struct {
	name string
	id   uint
}

func main() {
	if k := os.Getenv(common.EnvKeyIOTAPIKey); k != "" {
		apiKey = k
	}

	httpClient = resty.New().
		SetBaseURL("http://" + httpHostPort).
		SetTimeout(10 * time.Second)

	resp, err := httpClient.R().Get("/healthz")
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	if resp.StatusCode() != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = telemetryGrpc.NewTelemetryServiceClient(conn)

	fmt.Printf("gRPC client created\n")

	devices := make([]device, maxDevices)
	for i := range maxDevices {
		devices[i].name = uuid.NewString()
	}

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			defer wg.Done()
			devices[i].id = registerDevice(devices[i].name)
			fmt.Printf("\rregistered device %v", i)
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rregistered %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doAction(devices[i])
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v devices: used time=%v seconds, throughput=%v action/second, failures=%v\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices*3)/usedTime.Seconds(), failures.Load(),
	)
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	val := min + rnd.Float64()*(max-min)
	rndMu.Unlock()
	multiplier := math.Pow10(decimal)
	return math.Round(val*multiplier) / multiplier
}

func rndSleep() {
	rndMu.Lock()
	d := time.Duration(100+rnd.Int31n(1000)) * time.Millisecond
	rndMu.Unlock()
	time.Sleep(d)
}

func fail(format string, args ...any) {
	failures.Add(1)
	fmt.Printf("\n"+format+"\n", args...)
}

func registerDevice(name string) uint {
	if flipCoin() {
		var body struct {
			DeviceID uint `json:"device_id"`
		}
		resp, err := httpClient.R().
			SetQueryParams(map[string]string{"API-Key": apiKey, "device_name": name}).
			SetResult(&body).
			Get("/register_device")
		if err != nil || resp.StatusCode() != http.StatusOK {
			fail("register %s over http failed: err=%v resp=%v", name, err, resp)
			return 0
		}
		return body.DeviceID
	}

	req, _ := structpb.NewStruct(map[string]any{"API-Key": apiKey, "device_name": name})
	resp, err := grpcClient.RegisterDevice(context.Background(), req)
	if err != nil {
		fail("register %s over grpc failed: %v", name, err)
		return 0
	}
	return uint(resp.Fields["device_id"].GetNumberValue())
}

func doAction(d device) {
	actions := []func(){
		genUpdateDataAction(d),
		genGetDataAction(d),
		genUpdateDataAction(d),
	}
	actionNames := []string{
		"UpdateData",
		"GetData",
		"UpdateData",
	}
	rndMu.Lock()
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	rndMu.Unlock()
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for device %v", actionNames[index], d.name)
		rndSleep()
	}
}

func genUpdateDataAction(d device) func() {
	return func() {
		t := rndFloat64(-20.0, 50.0, 2)
		h := rndFloat64(0.0, 100.0, 2)

		if flipCoin() {
			resp, err := httpClient.R().
				SetQueryParams(map[string]string{
					"API-Key":     apiKey,
					"device_name": d.name,
					"temperature": strconv.FormatFloat(t, 'f', -1, 64),
					"humidity":    strconv.FormatFloat(h, 'f', -1, 64),
				}).
				Get("/update_data")
			if err != nil || resp.StatusCode() != http.StatusOK {
				fail("update_data over http failed: err=%v resp=%v", err, resp)
			}
			return
		}

		req, _ := structpb.NewStruct(map[string]any{
			"API-Key":     apiKey,
			"device_name": d.name,
			"temperature": t,
			"humidity":    h,
		})
		if _, err := grpcClient.UpdateData(context.Background(), req); err != nil {
			fail("update_data over grpc failed: %v", err)
		}
	}
}

func genGetDataAction(d device) func() {
	return func() {
		deviceID := strconv.FormatUint(uint64(d.id), 10)

		if flipCoin() {
			resp, err := httpClient.R().
				SetQueryParam("device_id", deviceID).
				Get("/get_data")
			if err != nil || resp.StatusCode() != http.StatusOK {
				fail("get_data over http failed: err=%v resp=%v", err, resp)
			}
			return
		}

		req, _ := structpb.NewStruct(map[string]any{"device_id": deviceID})
		if _, err := grpcClient.GetData(context.Background(), req); err != nil {
			fail("get_data over grpc failed: %v", err)
		}
	}
}
