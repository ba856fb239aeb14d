// Package vnpay builds signed VNPay redirect URLs and verifies return
// callbacks. Everything here is a pure function of the injected config, the
// clock and the inputs; nothing reads environment or touches storage.
package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/duyshop/backend/pkg/config"
)

var ErrInvalidSignature = errors.New("vnpay: secure hash mismatch")

// orderInfoPrefix is the free-text prefix some storefront clients put in
// front of the order code inside vnp_OrderInfo.
const orderInfoPrefix = "Thanh toan don hang "

const (
	version     = "2.1.0"
	command     = "pay"
	currency    = "VND"
	orderType   = "other"
	timeLayout  = "20060102150405"
	expireAfter = 15 * time.Minute
)

type Client struct {
	cfg config.VNPayConfig
	now func() time.Time
}

func NewClient(cfg config.VNPayConfig) *Client {
	return &Client{cfg: cfg, now: time.Now}
}

// PaymentRequest carries the caller-supplied inputs for a redirect URL.
type PaymentRequest struct {
	Amount    int64 // full VND, scaled to minor units internally
	OrderCode string
	ClientIP  string
	BankCode  string
	Locale    string
}

// BuildPaymentURL assembles the fixed VNPay parameter set, signs it and
// returns the full redirect URL.
func (c *Client) BuildPaymentURL(req PaymentRequest) (string, error) {
	if req.OrderCode == "" {
		return "", errors.New("vnpay: order code is required")
	}

	now := c.now()
	locale := req.Locale
	if locale == "" {
		locale = "vn"
	}

	params := map[string]string{
		"vnp_Version":    version,
		"vnp_Command":    command,
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Amount":     strconv.FormatInt(req.Amount*100, 10),
		"vnp_CurrCode":   currency,
		"vnp_TxnRef":     now.Format("150405"),
		"vnp_OrderInfo":  req.OrderCode,
		"vnp_OrderType":  orderType,
		"vnp_Locale":     locale,
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_IpAddr":     NormalizeClientIP(req.ClientIP),
		"vnp_CreateDate": now.Format(timeLayout),
		"vnp_ExpireDate": now.Add(expireAfter).Format(timeLayout),
	}
	if req.BankCode != "" {
		params["vnp_BankCode"] = req.BankCode
	}

	signData := canonicalize(params)
	hash := c.sign(signData)

	return c.cfg.URL + "?" + signData + "&vnp_SecureHash=" + hash, nil
}

// VerifyCallback checks the signature on a set of returned gateway
// parameters. The hash fields are removed before re-signing; everything else
// must reproduce the received hash byte for byte.
func (c *Client) VerifyCallback(received map[string]string) error {
	params := make(map[string]string, len(received))
	for k, v := range received {
		params[k] = v
	}

	got := params["vnp_SecureHash"]
	delete(params, "vnp_SecureHash")
	delete(params, "vnp_SecureHashType")

	want := c.sign(canonicalize(params))
	if !hmac.Equal([]byte(got), []byte(want)) {
		return ErrInvalidSignature
	}
	return nil
}

// OrderCodeFromInfo recovers the order code from vnp_OrderInfo, stripping the
// human-readable prefix when a client included one.
func OrderCodeFromInfo(info string) string {
	return strings.TrimSpace(strings.TrimPrefix(info, orderInfoPrefix))
}

// NormalizeClientIP maps the IPv6 loopback spellings onto 127.0.0.1 so the
// signed parameter matches what the gateway echoes back.
func NormalizeClientIP(ip string) string {
	if ip == "::1" || ip == "::ffff:127.0.0.1" || ip == "" {
		return "127.0.0.1"
	}
	return ip
}

// canonicalize URL-encodes keys and values, sorts by encoded key and joins as
// k=v&k=v. QueryEscape already renders spaces as +, matching the gateway's
// expected encoding.
func canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	encoded := make(map[string]string, len(params))
	for k, v := range params {
		ek := url.QueryEscape(k)
		keys = append(keys, ek)
		encoded[ek] = url.QueryEscape(v)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(encoded[k])
	}
	return b.String()
}

func (c *Client) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(c.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
