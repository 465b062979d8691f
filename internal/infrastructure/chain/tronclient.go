// Package chain implements the Chain Client (spec component 4.B) against
// the TronGrid TRC-20 indexer.
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"paykript/internal/application/payment/chainclient"
	"paykript/internal/shared/logger"
)

const trongridBaseURL = "https://api.trongrid.io"

// pollRateLimit bounds the requests/second this process sends to TronGrid
// across every payment being checked in a tick, staying well under the
// public API's per-key rate ceiling regardless of how large the open-
// payment backlog is.
const pollRateLimit = 15

type trc20Transfer struct {
	TransactionID  string `json:"transaction_id"`
	BlockTimestamp int64  `json:"block_timestamp"`
	From           string `json:"from"`
	To             string `json:"to"`
	Value          string `json:"value"`
	TokenInfo      struct {
		Address  string `json:"address"`
		Decimals int    `json:"decimals"`
	} `json:"token_info"`
}

type trc20Response struct {
	Data    []trc20Transfer `json:"data"`
	Success bool            `json:"success"`
}

// TronGridClient implements chainclient.Client over the public TronGrid
// REST API. Every call is bounded by chainclient.CallTimeout.
type TronGridClient struct {
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.Interface
}

func NewTronGridClient(apiKey string, log logger.Interface) *TronGridClient {
	return &TronGridClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: chainclient.CallTimeout},
		limiter:    rate.NewLimiter(rate.Limit(pollRateLimit), pollRateLimit),
		logger:     log,
	}
}

// do waits for rate-limiter headroom before issuing req, so a large
// open-payment backlog never bursts past TronGrid's rate ceiling.
func (c *TronGridClient) do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

// ListTRC20Transfers returns transfers observed to address for contract.
// Any upstream failure is logged and swallowed: the monitor tolerates
// transient outages by retrying on the next tick.
func (c *TronGridClient) ListTRC20Transfers(ctx context.Context, address, contract string, limit int) ([]chainclient.TransferObservation, error) {
	url := fmt.Sprintf("%s/v1/accounts/%s/transactions/trc20?only_to=true&limit=%d&contract_address=%s",
		trongridBaseURL, address, limit, contract)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Warnw("failed to build trc20 transfer request", "error", err)
		return nil, nil
	}
	c.setAPIKey(req)

	resp, err := c.do(req)
	if err != nil {
		c.logger.Warnw("trc20 transfer request failed", "address", address, "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	var apiResp trc20Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil || !apiResp.Success {
		c.logger.Warnw("trc20 transfer response invalid", "address", address, "error", err)
		return nil, nil
	}

	observations := make([]chainclient.TransferObservation, 0, len(apiResp.Data))
	for _, t := range apiResp.Data {
		rawAmount, err := strconv.ParseUint(t.Value, 10, 64)
		if err != nil {
			c.logger.Warnw("skipping transfer with unparseable amount", "tx_hash", t.TransactionID, "value", t.Value)
			continue
		}
		blockNumber, confirmations, _ := c.getTransactionDetails(ctx, t.TransactionID)
		ts := t.BlockTimestamp
		observations = append(observations, chainclient.TransferObservation{
			TxHash:        t.TransactionID,
			From:          t.From,
			To:            t.To,
			RawAmount:     rawAmount,
			Contract:      t.TokenInfo.Address,
			BlockNumber:   &blockNumber,
			TimestampMS:   &ts,
			Confirmations: confirmations,
		})
	}
	return observations, nil
}

// GetTransaction fetches a single transaction by hash.
func (c *TronGridClient) GetTransaction(ctx context.Context, txHash string) (*chainclient.TransactionDetail, error) {
	blockNumber, confirmations, err := c.getTransactionDetails(ctx, txHash)
	if err != nil || blockNumber == 0 {
		return nil, nil
	}
	return &chainclient.TransactionDetail{
		TxHash:        txHash,
		BlockNumber:   blockNumber,
		Confirmations: confirmations,
	}, nil
}

func (c *TronGridClient) getTransactionDetails(ctx context.Context, txHash string) (uint64, int, error) {
	url := fmt.Sprintf("%s/v1/transactions/%s", trongridBaseURL, txHash)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, err
	}
	c.setAPIKey(req)

	resp, err := c.do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	var txResp struct {
		Data []struct {
			BlockNumber int64 `json:"blockNumber"`
		} `json:"data"`
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&txResp); err != nil {
		return 0, 0, err
	}
	if !txResp.Success || len(txResp.Data) == 0 {
		return 0, 0, nil
	}
	blockNumber := uint64(txResp.Data[0].BlockNumber)

	currentBlock, err := c.getCurrentBlockNumber(ctx)
	if err != nil {
		return blockNumber, 0, nil
	}
	confirmations := int(currentBlock) - int(blockNumber) + 1
	if confirmations < 0 {
		confirmations = 0
	}
	return blockNumber, confirmations, nil
}

func (c *TronGridClient) getCurrentBlockNumber(ctx context.Context) (uint64, error) {
	url := fmt.Sprintf("%s/wallet/getnowblock", trongridBaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return 0, err
	}
	c.setAPIKey(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var blockResp struct {
		BlockHeader struct {
			RawData struct {
				Number int64 `json:"number"`
			} `json:"raw_data"`
		} `json:"block_header"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&blockResp); err != nil {
		return 0, err
	}
	return uint64(blockResp.BlockHeader.RawData.Number), nil
}

func (c *TronGridClient) setAPIKey(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("TRON-PRO-API-KEY", c.apiKey)
	}
}
