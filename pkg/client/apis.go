package client

import (
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/batalert/pkg/types"
)

func (c *Client) GetStatus() (*types.DaemonStatus, error) {
	ret, err := c.Get("/status")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get daemon status")
	}

	var status types.DaemonStatus
	if err := json.Unmarshal([]byte(ret), &status); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal daemon status")
	}

	return &status, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}

	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}

	return v, nil
}
