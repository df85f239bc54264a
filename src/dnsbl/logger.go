// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import "github.com/sirupsen/logrus"

// Log is the package-global logger used by every [Client] that was not
// given one via [WithLogger]. Configuration can be changed directly on
// this instance or the instance replaced before calling [New].
var Log = logrus.New()
