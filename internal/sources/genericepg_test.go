// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sources

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericEPG_Programmes(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `{"programmes":[
		{"channel":{"id":"7","name":"EBS"},"start":"2024-05-01T20:00:00+09:00","end":"2024-05-01T20:45:30+09:00","title":"다큐"},
		{"channel":{"id":7,"name":"EBS"},"start":"2024-05-01T09:00:00Z","name":"저녁 뉴스","description":"오늘의 소식"},
		{"start":"2024-05-01T01:00:00+09:00","end":"2024-05-01T02:00:00+09:00"},
		{"channel":{"id":7,"name":"EBS"},"start":"not a time","title":"깨짐"}
	]}`)
	a := NewGenericEPG(up.transport(), GenericEPGOptions{BaseURL: up.URL, Location: kst})

	groups, err := a.Fetch(context.Background(), testDate)
	require.NoError(t, err)
	require.Equal(t, []string{"EBS", "Unknown"}, names(groups))

	ebs := groups[0]
	assert.Equal(t, 7, ebs.Channel.ID)
	require.Len(t, ebs.Items, 2)
	assert.Equal(t, "18:00", ebs.Items[0].Time)
	assert.Equal(t, "저녁 뉴스", ebs.Items[0].Program)
	assert.Equal(t, 60.0, ebs.Items[0].Duration)
	assert.Equal(t, "오늘의 소식", ebs.Items[0].Description)
	assert.Equal(t, "20:00", ebs.Items[1].Time)
	assert.Equal(t, 45.5, ebs.Items[1].Duration)

	unknown := groups[1].Items[0]
	assert.Equal(t, "01:00", unknown.Time)
	assert.Equal(t, "프로그램", unknown.Program)

	u := up.requestURL(t)
	assert.Equal(t, "/programmes/2024-05-01", u.Path)
	assert.Equal(t, "kr", u.Query().Get("channels"))
}

func TestGenericEPG_MissingProgrammes(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `{"channels":[]}`)

	groups, err := NewGenericEPG(up.transport(), GenericEPGOptions{BaseURL: up.URL}).Fetch(context.Background(), testDate)
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
