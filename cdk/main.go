package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type TimeKeeperStackProps struct {
	awscdk.StackProps
}

// passthroughEnv is copied from the deploying shell into the function.
var passthroughEnv = []string{
	"DATA_SOURCE_MODE",
	"API_BASE_URL",
	"STORAGE_BACKEND",
	"POSTGRES_DSN",
	"LOG_LEVEL",
	"VAPID_PUBLIC_KEY",
	"VAPID_PRIVATE_KEY",
	"VAPID_SUBJECT",
}

func NewTimeKeeperStack(scope constructs.Construct, id string, props *TimeKeeperStackProps) awscdk.Stack {
	var stackProps awscdk.StackProps
	if props != nil {
		stackProps = props.StackProps
	}

	stack := awscdk.NewStack(scope, &id, &stackProps)

	environment := map[string]*string{
		"LOG_FORMAT": jsii.String("json"),
	}
	for _, name := range passthroughEnv {
		if value, ok := os.LookupEnv(name); ok {
			environment[name] = jsii.String(value)
		}
	}
	// Lambda only has /tmp writable; without Postgres the snapshot lives in
	// sqlite there and is lost on cold start.
	if _, ok := environment["POSTGRES_DSN"]; !ok {
		environment["DB_PATH"] = jsii.String("/tmp/time-keeper.db")
	}

	lambdaFn := awslambda.NewFunction(stack, jsii.String("TimeKeeperApi"), &awslambda.FunctionProps{
		Runtime:     awslambda.Runtime_PROVIDED_AL2023(),
		Handler:     jsii.String("bootstrap"),
		Code:        awslambda.Code_FromAsset(jsii.String("../build"), nil),
		MemorySize:  jsii.Number(256),
		Timeout:     awscdk.Duration_Seconds(jsii.Number(15)),
		Environment: &environment,
	})

	api := awsapigateway.NewLambdaRestApi(stack, jsii.String("TimeKeeperApiGateway"), &awsapigateway.LambdaRestApiProps{
		Handler: lambdaFn,
	})

	awscdk.NewCfnOutput(stack, jsii.String("ApiUrl"), &awscdk.CfnOutputProps{Value: api.Url()})

	return stack
}

func main() {
	app := awscdk.NewApp(nil)
	NewTimeKeeperStack(app, "TimeKeeperStack", &TimeKeeperStackProps{})
	app.Synth(nil)
}
