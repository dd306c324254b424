package indicator

import (
	"sync"
	"testing"

	"github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
	registry Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewRegistry(EMA(9), EMA(21), EMA(9))
}

func (suite *RegistryTestSuite) TestNewRegistryDeduplicates() {
	suite.Equal([]Indicator{EMA(9), EMA(21)}, suite.registry.List())
}

func (suite *RegistryTestSuite) TestAdd() {
	suite.True(suite.registry.Add(MACD(12, 26, 9)))
	suite.False(suite.registry.Add(MACD(12, 26, 9)))
	suite.True(suite.registry.Contains(MACD(12, 26, 9)))
	suite.Len(suite.registry.List(), 3)
}

func (suite *RegistryTestSuite) TestRemove() {
	suite.NoError(suite.registry.Remove(EMA(9)))
	suite.False(suite.registry.Contains(EMA(9)))

	err := suite.registry.Remove(EMA(9))
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
}

func (suite *RegistryTestSuite) TestListIsACopy() {
	list := suite.registry.List()
	list[0] = RSI(14)
	suite.True(suite.registry.Contains(EMA(9)))
}

func (suite *RegistryTestSuite) TestConcurrentAdd() {
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)

		go func(period int) {
			defer wg.Done()
			suite.registry.Add(SMA(period%10 + 1))
		}(i)
	}

	wg.Wait()
	suite.Len(suite.registry.List(), 12)
}
