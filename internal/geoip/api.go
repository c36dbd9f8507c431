package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/repcoin-app/backend/internal/telemetry/tracing"
)

const DefaultIpInfoBaseURL = "https://api.ipbase.com"

// IpInfo is the flattened geo info for a single IP address.
type IpInfo struct {
	IP       string `json:"ip"`
	Hostname string `json:"hostname"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Loc      string `json:"loc"`
	Org      string `json:"org"`
	Postal   string `json:"postal"`
	Timezone string `json:"timezone"`
}

type Api struct {
	mu             sync.Mutex
	ipBaseEndpoint string
	ipBaseAPIKey   string
	httpClient     *http.Client
	redisClient    *redis.Client
}

var devGeoIpInfo = IpInfo{
	IP:      "127.0.0.1",
	City:    "Berlin",
	Country: "DE",
}

func NewApi(
	ipBaseEndpoint, ipBaseAPIKey string,
	httpClient *http.Client,
	redisClient *redis.Client,
) *Api {
	return &Api{
		ipBaseEndpoint: ipBaseEndpoint,
		ipBaseAPIKey:   ipBaseAPIKey,
		httpClient:     httpClient,
		redisClient:    redisClient,
	}
}

func (gi *Api) GetIPGeoInfo(ctx context.Context, userIp string) (*IpInfo, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoIp.getIpGeoInfo")
	defer span.End()

	span.SetAttributes(attribute.String("user.ip", userIp))

	// used for development
	if userIp == "localhost" {
		log.Debugf("geo info: returning development localhost / Berlin")
		return &devGeoIpInfo, nil
	}

	// the ip info api free plan covers only a small number of calls, and the
	// frontend fires several requests upon opening the home page; the mutex
	// plus the redis cache keep the number of upstream calls down
	gi.mu.Lock()
	defer gi.mu.Unlock()

	// try to get geo ip info from redis
	userIpKey := fmt.Sprintf("ip-info::%s", userIp)
	cmd := gi.redisClient.Get(ctx, userIpKey)
	if err := cmd.Err(); err != nil && err != redis.Nil {
		log.Errorf("failed to find ip info from redis for [%s]: %s", userIpKey, err)
	}

	geoIpResponse := &IpInfo{}
	if geoIpInfoBytes := cmd.Val(); geoIpInfoBytes != "" {
		span.SetAttributes(attribute.Bool("user.ip.from-cache", true))
		log.Tracef("found geo ip info for [%s] in redis cache", userIp)
		if err := json.Unmarshal([]byte(geoIpInfoBytes), geoIpResponse); err == nil {
			return geoIpResponse, nil
		} else {
			log.Errorf("failed to unmarshal cached ip info from redis for %s: %s", userIp, err)
			// continue, and try getting it from the ip info API
		}
	} else {
		span.SetAttributes(attribute.Bool("user.ip.from-cache", false))
		log.Debugf("ip info value from redis not found for [%s]", userIp)
	}

	ipInfoUrl := fmt.Sprintf("%s/v2/info?apikey=%s&ip=%s", gi.ipBaseEndpoint, gi.ipBaseAPIKey, userIp)
	log.Debugf("calling geo ip info: %s", ipInfoUrl)

	req, err := http.NewRequest("GET", ipInfoUrl, nil)
	if err != nil {
		return nil, err
	}

	resp, err := gi.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting ip info response: %s", err.Error())
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read geo ip response bytes: %s", err)
	}

	if err := json.Unmarshal(respBytes, geoIpResponse); err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("unmarshal geo ip resp: %s", err))
		return nil, fmt.Errorf("unmarshal geo ip response bytes: %w", err)
	}

	// cache response in redis
	cmdSet := gi.redisClient.Set(ctx, userIpKey, respBytes, 0)
	if err := cmdSet.Err(); err != nil {
		log.Errorf("failed to cache ip info in redis for %s: %s", userIp, err)
	} else {
		log.Debugf("ip info cache set in redis for: %s", userIp)
	}

	return geoIpResponse, nil
}
