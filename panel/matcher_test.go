package panel

import (
	"encoding/json"
	"testing"

	"github.com/Phechr2025/Bio-Shop-VPN-information/util/json_util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeInbounds(t *testing.T, raw string) []Inbound {
	t.Helper()
	v, err := json_util.Decode([]byte(raw))
	require.NoError(t, err)
	inbounds, err := toInbounds(v)
	require.NoError(t, err)
	return inbounds
}

func TestFindClient_DirectClientsField(t *testing.T) {
	id := uuid.NewString()
	inbounds := decodeInbounds(t, `[
		{"protocol":"vless","remark":"sg","clients":[{"id":"`+id+`","email":"a@x","totalGB":1073741824,"expiryTime":1735689600000,"limitIp":2}],
		 "clientStats":[{"id":"`+id+`","up":100,"down":200,"total":1073741824}]}
	]`)

	client, inbound, stat, ok := FindClient(inbounds, id)
	require.True(t, ok)
	assert.Equal(t, "a@x", client.Email())
	assert.Equal(t, "sg", inbound.Remark())
	require.NotNil(t, stat)
	assert.Equal(t, int64(100), stat.Up())
	assert.Equal(t, int64(200), stat.Down())
	assert.Equal(t, int64(1073741824), stat.Total())

	assert.Equal(t, json.Number("1073741824"), client.TotalGB())
	assert.Equal(t, json.Number("1735689600000"), client.ExpiryTime())
	assert.Equal(t, json.Number("2"), client.LimitIP())
}

func TestFindClient_SettingsJSONString(t *testing.T) {
	id := uuid.NewString()
	inbounds := decodeInbounds(t, `[
		{"protocol":"vmess","settings":"{\"clients\":[{\"id\":\"`+id+`\",\"email\":\"b@x\",\"enable\":false,\"flow\":\"xtls-rprx-vision\"}]}",
		 "clientstats":[{"id":"`+id+`","up":1,"down":2}]}
	]`)

	client, inbound, stat, ok := FindClient(inbounds, id)
	require.True(t, ok)
	assert.Equal(t, "b@x", client.Email())
	assert.Equal(t, "xtls-rprx-vision", client.Flow())
	enable, present := client.Enable()
	assert.True(t, present)
	assert.False(t, enable)
	assert.Equal(t, "vmess", inbound.Protocol())
	require.NotNil(t, stat)
	assert.Equal(t, int64(2), stat.Down())
}

func TestFindClient_SettingsAlreadyDecoded(t *testing.T) {
	inbounds := decodeInbounds(t, `[{"settings":{"clients":[{"id":"c1","email":"c@x"}]}}]`)
	client, _, stat, ok := FindClient(inbounds, "c1")
	require.True(t, ok)
	assert.Equal(t, "c@x", client.Email())
	assert.Nil(t, stat)
}

func TestFindClient_FirstMatchWins(t *testing.T) {
	inbounds := decodeInbounds(t, `[
		{"remark":"first","clients":[{"id":"dup","email":"one"}]},
		{"remark":"second","clients":[{"id":"dup","email":"two"}]}
	]`)
	client, inbound, _, ok := FindClient(inbounds, "dup")
	require.True(t, ok)
	assert.Equal(t, "one", client.Email())
	assert.Equal(t, "first", inbound.Remark())
}

func TestFindClient_NumericIDComparedAsString(t *testing.T) {
	inbounds := decodeInbounds(t, `[{"clients":[{"id":12345,"email":"num"}],"clientStats":[{"id":12345,"up":7}]}]`)
	client, _, stat, ok := FindClient(inbounds, "12345")
	require.True(t, ok)
	assert.Equal(t, "num", client.Email())
	require.NotNil(t, stat)
	assert.Equal(t, int64(7), stat.Up())
}

func TestFindClient_SkipsMalformedAndEmptyInbounds(t *testing.T) {
	inbounds := decodeInbounds(t, `[
		{"remark":"broken","settings":"{not json"},
		{"remark":"empty","clients":[]},
		{"remark":"nullsettings","settings":null},
		{"remark":"ok","clients":[{"id":"target"}]}
	]`)
	_, inbound, _, ok := FindClient(inbounds, "target")
	require.True(t, ok)
	assert.Equal(t, "ok", inbound.Remark())
}

func TestFindClient_NotFound(t *testing.T) {
	inbounds := decodeInbounds(t, `[{"clients":[{"id":"a"}]}]`)
	client, inbound, stat, ok := FindClient(inbounds, "missing")
	assert.False(t, ok)
	assert.Nil(t, client)
	assert.Nil(t, inbound)
	assert.Nil(t, stat)

	_, _, _, ok = FindClient(nil, "a")
	assert.False(t, ok)
}

func TestFindClient_StatForOtherClientIgnored(t *testing.T) {
	inbounds := decodeInbounds(t, `[{"clients":[{"id":"a"},{"id":"b"}],"clientStats":[{"id":"a","up":1}]}]`)
	_, _, stat, ok := FindClient(inbounds, "b")
	require.True(t, ok)
	assert.Nil(t, stat)
}

func TestFindClient_EmptyClientStatsFallsThrough(t *testing.T) {
	inbounds := decodeInbounds(t, `[{"clients":[{"id":"a"}],"clientStats":[],"clientstats":[{"id":"a","up":7,"down":8}]}]`)
	_, _, stat, ok := FindClient(inbounds, "a")
	require.True(t, ok)
	require.NotNil(t, stat)
	assert.Equal(t, int64(7), stat.Up())
	assert.Equal(t, int64(8), stat.Down())

	// clientStats 为 null 时同样看 clientstats
	inbounds = decodeInbounds(t, `[{"clients":[{"id":"a"}],"clientStats":null,"clientstats":[{"id":"a","up":1}]}]`)
	_, _, stat, ok = FindClient(inbounds, "a")
	require.True(t, ok)
	require.NotNil(t, stat)
	assert.Equal(t, int64(1), stat.Up())
}

func TestClient_FallbackKeys(t *testing.T) {
	c := Client{"total": json.Number("5"), "expiry_time": json.Number("10"), "ipLimit": json.Number("3")}
	assert.Equal(t, json.Number("5"), c.TotalGB())
	assert.Equal(t, json.Number("10"), c.ExpiryTime())
	assert.Equal(t, json.Number("3"), c.LimitIP())

	// 第一个存在的 key 优先，即使它的值是 0
	c = Client{"totalGB": json.Number("0"), "total": json.Number("99")}
	assert.Equal(t, json.Number("0"), c.TotalGB())

	assert.Nil(t, Client{}.TotalGB())
	_, present := Client{}.Enable()
	assert.False(t, present)
}
