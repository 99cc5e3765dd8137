package tool

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"
	weatherx "github.com/naruebet/memochat/pkg/weatherstack"
)

const ToolWeatherCurrent = "weather.current"

// NewWeatherTool fetches live conditions through the Weatherstack client.
// Network failures, timeouts, and upstream error payloads all surface as
// in-band tool errors for the model to explain.
func NewWeatherTool(client *weatherx.Client) *Spec {
	params := map[string]*schema.ParameterInfo{
		"city":    {Type: schema.String, Desc: `City name, e.g. "Chandigarh"`, Required: true},
		"country": {Type: schema.String, Desc: `Optional country hint, e.g. "India"`},
	}
	return &Spec{
		Info: &schema.ToolInfo{
			Name:        ToolWeatherCurrent,
			Desc:        "Fetch live current weather for a city: temperature, feels-like, description, wind, humidity.",
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		},
		Params: params,
		Invoke: func(ctx context.Context, args map[string]any) (any, error) {
			if client == nil {
				return nil, errors.New("weather service is not configured")
			}
			city, _ := stringArg(args, "city")
			country, _ := stringArg(args, "country")
			obs, err := client.CurrentWeather(ctx, city, country)
			if err != nil {
				return nil, err
			}
			return obs, nil
		},
	}
}
